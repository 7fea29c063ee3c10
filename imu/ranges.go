package imu

import (
	"math"

	"vive-lighthouse-xr-go/constant"
	"vive-lighthouse-xr-go/variant"
	"vive-lighthouse-xr-go/viveerr"
)

const maxRangeIndex = 4

// rangeReportSize is the feature report this function reads: report ID
// byte, gyro range index, accel range index.
const rangeReportSize = 3

// featureReader is the subset of hidio.Handle the range auto-detect
// needs, kept narrow so it is trivially fakeable in tests.
type featureReader interface {
	GetFeatureReport(reportID byte, buf []byte) (int, error)
}

// RangeIndices is the raw gyro/accel range-index pair read off the
// IMU-range-modes feature report (spec.md §4.4 "IMU range
// auto-detection").
type RangeIndices struct {
	GyroIndex int
	AccIndex  int
}

// ReadRangeIndices fetches constant.ReportIDIMURangeModes and decodes
// the two range indices (spec.md §4.4, §6.2). The report's gyro index
// occupies byte 1 and the accel index byte 2, following the same
// "report ID then payload" feature-report shape used throughout (e.g.
// calib.ReadConfigBlob's config-read report).
func ReadRangeIndices(h featureReader) (RangeIndices, error) {
	const op = "imu.ReadRangeIndices"
	buf := make([]byte, rangeReportSize)
	if _, err := h.GetFeatureReport(constant.ReportIDIMURangeModes, buf); err != nil {
		return RangeIndices{}, viveerr.New(viveerr.HidIo, op, err)
	}
	return RangeIndices{GyroIndex: int(buf[1]), AccIndex: int(buf[2])}, nil
}

// GyroRangeFromIndex implements the Vive-family gyro range table
// (spec.md §4.4): π/180 · (250 << idx) rad/s. An out-of-range index
// falls back to variant.DefaultGyroRange.
func GyroRangeFromIndex(idx int) float64 {
	if idx < 0 || idx > maxRangeIndex {
		return variant.DefaultGyroRange
	}
	return math.Pi / 180 * float64(250<<uint(idx))
}

// AccRangeFromIndex implements the Vive-family accelerometer range
// table (spec.md §4.4): 9.80665 · (2 << idx) m/s². An out-of-range
// index falls back to variant.DefaultAccRange.
func AccRangeFromIndex(idx int) float64 {
	if idx < 0 || idx > maxRangeIndex {
		return variant.DefaultAccRange
	}
	return 9.80665 * float64(2<<uint(idx))
}
