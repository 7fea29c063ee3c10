package calib

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"vive-lighthouse-xr-go/constant"
	"vive-lighthouse-xr-go/hidio"
	"vive-lighthouse-xr-go/viveerr"
)

// featureReader is the subset of hidio.Handle the blob reader needs,
// kept narrow so it is trivially fakeable in tests.
type featureReader interface {
	SetFeatureReport(buf []byte) error
	GetFeatureReport(reportID byte, buf []byte) (int, error)
}

var _ featureReader = (*hidio.Handle)(nil)

// ReadConfigBlob reassembles and inflates the factory calibration blob
// from the sensors interface's config-start/config-read feature reports
// (spec.md §4.2). The returned string is the inflated JSON document.
func ReadConfigBlob(h featureReader) (string, error) {
	const op = "calib.ReadConfigBlob"

	startReport := [1]byte{constant.ReportIDConfigStart}
	if err := h.SetFeatureReport(startReport[:]); err != nil {
		return "", viveerr.New(viveerr.ConfigTransport, op, err)
	}

	var raw bytes.Buffer
	buf := make([]byte, 1+1+constant.ConfigReadPayloadMax)
	for {
		n, err := h.GetFeatureReport(constant.ReportIDConfigRead, buf)
		if err != nil {
			return "", viveerr.New(viveerr.ConfigTransport, op, err)
		}
		if n < 2 {
			return "", viveerr.New(viveerr.ConfigTransport, op, nil)
		}

		length := int(buf[1])
		if length == 0 {
			break
		}
		if 2+length > n {
			length = n - 2
		}
		raw.Write(buf[2 : 2+length])
	}

	zr, err := zlib.NewReader(&raw)
	if err != nil {
		return "", viveerr.New(viveerr.ConfigInflate, op, err)
	}
	defer zr.Close()

	limited := io.LimitReader(zr, constant.ConfigBlobCap+1)
	inflated, err := io.ReadAll(limited)
	if err != nil {
		return "", viveerr.New(viveerr.ConfigInflate, op, err)
	}
	if len(inflated) > constant.ConfigBlobCap {
		return "", viveerr.New(viveerr.ConfigTooLarge, op, nil)
	}

	return string(inflated), nil
}
