package imu

import (
	"bytes"
	"encoding/binary"
	"sort"

	"vive-lighthouse-xr-go/calib"
	"vive-lighthouse-xr-go/geom"
	"vive-lighthouse-xr-go/variant"
	"vive-lighthouse-xr-go/viveerr"
)

const (
	reportSizeBytes  = 52
	samplesPerReport = 3
)

// decodeHMDReport splits the 52-byte HMD IMU report (report ID + three
// round-robin samples) into its three raw slots (spec.md §4.4).
func decodeHMDReport(buf []byte) ([samplesPerReport]RawSample, error) {
	const op = "imu.decodeHMDReport"
	var out [samplesPerReport]RawSample

	if len(buf) < reportSizeBytes {
		return out, viveerr.New(viveerr.BadReportSize, op, nil)
	}

	r := bytes.NewReader(buf[1:])
	for slot := 0; slot < samplesPerReport; slot++ {
		var acc, gyro [3]int16
		if err := binary.Read(r, binary.LittleEndian, &acc); err != nil {
			return out, viveerr.New(viveerr.BadReportSize, op, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &gyro); err != nil {
			return out, viveerr.New(viveerr.BadReportSize, op, err)
		}
		var ticks uint32
		if err := binary.Read(r, binary.LittleEndian, &ticks); err != nil {
			return out, viveerr.New(viveerr.BadReportSize, op, err)
		}
		var seq uint8
		if err := binary.Read(r, binary.LittleEndian, &seq); err != nil {
			return out, viveerr.New(viveerr.BadReportSize, op, err)
		}
		out[slot] = RawSample{Slot: slot, Sequence: seq, Ticks: ticks, RawAcc: acc, RawGyro: gyro}
	}
	return out, nil
}

// Accumulator ties the tick-recovery, conversion, round-robin ordering
// and fusion steps together into one per-device IMU pipeline
// (spec.md §4.4).
type Accumulator struct {
	Calibration calib.IMU
	Remap       variant.AxisRemap

	estimator     *Estimator
	hasLast       bool
	lastProcessed uint8
	lastTicks     uint32
	timeNS        uint64
}

// NewAccumulator builds a fresh pipeline for one device's IMU stream.
func NewAccumulator(cal calib.IMU, remap variant.AxisRemap) *Accumulator {
	return &Accumulator{
		Calibration: cal,
		Remap:       remap,
		estimator:   NewEstimator(),
	}
}

// ProcessReport decodes one HMD IMU report, discards already-seen
// slots, orders the rest oldest-first by signed sequence gap
// (spec.md §9 DESIGN NOTES, replacing the ambiguous literal "starting
// slot" formula in §4.4), and feeds each in turn through tick-to-ns
// recovery, unit conversion, axis remap and fusion.
func (a *Accumulator) ProcessReport(buf []byte) ([]Reading, error) {
	raw, err := decodeHMDReport(buf)
	if err != nil {
		return nil, err
	}

	fresh := make([]RawSample, 0, samplesPerReport)
	for _, s := range raw {
		if a.hasLast && SeqGap(s.Sequence, a.lastProcessed) <= 0 {
			continue // already processed, per spec.md §4.4
		}
		fresh = append(fresh, s)
	}

	sort.Slice(fresh, func(i, j int) bool {
		return SeqGap(fresh[i].Sequence, fresh[j].Sequence) < 0
	})

	readings := make([]Reading, 0, len(fresh))
	for _, s := range fresh {
		var dtNS uint64
		if a.hasLast {
			dtTicks := TickDeltaTicks(a.lastTicks, s.Ticks)
			dtNS = TickDeltaNS(dtTicks)
			a.timeNS += dtNS
		}

		sample := ConvertSample(s, a.Calibration, a.Remap)
		orientation := a.estimator.Update(dtNS, sample.Acc, sample.Gyro)

		readings = append(readings, Reading{
			Sequence:    s.Sequence,
			DeltaNS:     dtNS,
			TimeNS:      a.timeNS,
			Acc:         sample.Acc,
			Gyro:        sample.Gyro,
			Orientation: orientation,
		})

		a.lastProcessed = s.Sequence
		a.lastTicks = s.Ticks
		a.hasLast = true
	}

	return readings, nil
}

// Orientation returns the current fused world-from-device orientation.
func (a *Accumulator) Orientation() geom.Quaternion {
	return a.estimator.Orientation()
}
