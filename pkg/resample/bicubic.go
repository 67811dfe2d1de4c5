package resample

// UpscaleBicubic resamples img to outW x outH with the Catmull-Rom cubic
// kernel over a 4x4 neighbourhood. Coordinates map edge to edge: the corner
// samples of the output coincide with those of the input.
func UpscaleBicubic(img *Image, outW, outH int, opts ...Option) (*Image, error) {
	o := collectOptions(opts)
	if err := checkRequest(img, outW, outH); err != nil {
		return nil, err
	}
	if err := o.checkLinear(img.Channels); err != nil {
		return nil, err
	}
	return separable(img, outW, outH, o, bicubicTaps)
}
