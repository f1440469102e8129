package worker

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

var probeClient = &http.Client{Timeout: 30 * time.Second}

// probeDuration downloads an episode's MP3 enclosure and derives its
// playing time from the decoded PCM length. Only used for feeds that do
// not report a duration.
func probeDuration(url string) (time.Duration, error) {
	resp, err := probeClient.Get(url)
	if err != nil {
		return 0, fmt.Errorf("enclosure fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("enclosure fetch status %d", resp.StatusCode)
	}

	decoder, err := mp3.NewDecoder(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("enclosure decode failed: %w", err)
	}

	// Decoded output is 16-bit stereo: 4 bytes per sample frame.
	frames := decoder.Length() / 4
	if frames <= 0 || decoder.SampleRate() <= 0 {
		return 0, fmt.Errorf("enclosure has no samples")
	}

	seconds := float64(frames) / float64(decoder.SampleRate())
	return time.Duration(seconds * float64(time.Second)), nil
}

// ProbeDurationFunc allows tests to override the probe implementation.
var ProbeDurationFunc = probeDuration
