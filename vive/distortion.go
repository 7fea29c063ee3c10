package vive

import "vive-lighthouse-xr-go/calib"

// computeChannelDistortion applies one color channel's closed-form
// polynomial distortion (the "Vive distortion", spec.md §4.8): radial
// distance from the channel's own center, scaled by a cubic in r²,
// normalized by undistortR2Cutoff when set.
func computeChannelDistortion(u, v, cutoff float64, d calib.ColorDistortion) [2]float64 {
	dx := u - d.CenterX
	dy := v - d.CenterY
	r2 := dx*dx + dy*dy
	if cutoff > 0 {
		r2 /= cutoff
	}
	scale := d.Coeffs[0] + r2*(d.Coeffs[1]+r2*(d.Coeffs[2]+r2*d.Coeffs[3]))
	return [2]float64{d.CenterX + dx*scale, d.CenterY + dy*scale}
}
