package motion

import "math"

// ToSeconds converts a frame index into elapsed seconds at the given frame rate.
func ToSeconds(frame, fps int) float64 {
	return float64(frame) / float64(fps)
}

// ToFrame converts seconds into the nearest frame index at the given frame rate.
func ToFrame(seconds float64, fps int) int {
	return int(math.Round(seconds * float64(fps)))
}

// Seconds converts a duration in seconds into a frame count, never below one frame.
func Seconds(seconds float64, fps int) int {
	n := ToFrame(seconds, fps)
	if n < 1 {
		return 1
	}
	return n
}
