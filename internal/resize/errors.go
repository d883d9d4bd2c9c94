package resize

import "errors"

var (
	ErrWeightBelowMinimum = errors.New("weight below minimum")
	ErrWeightsSum         = errors.New("weights do not sum to 100")
	ErrNotSplittable      = errors.New("not a row or column")
	ErrGestureDone        = errors.New("splitter drag already finished")
)
