package stats

import (
	"math"

	"github.com/verte-zerg/typesprint/internal/model"
)

// CharsPerWord is the conventional length of a "word" for WPM.
const CharsPerWord = 5

// WPM converts correct characters typed over elapsedSeconds into words per
// minute, rounded half away from zero.
func WPM(correctChars int, elapsedSeconds float64) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	words := float64(correctChars) / CharsPerWord
	minutes := elapsedSeconds / 60
	return int(math.Round(words / minutes))
}

// Accuracy returns the percentage of correct characters. No input is 100%.
func Accuracy(correctChars, totalChars int) int {
	if totalChars == 0 {
		return 100
	}
	return int(math.Round(float64(correctChars) / float64(totalChars) * 100))
}

// BuildResults composes the final results of a test.
func BuildResults(correctChars, totalChars int, elapsedSeconds float64) model.TestResults {
	return model.TestResults{
		WPM:            WPM(correctChars, elapsedSeconds),
		Accuracy:       Accuracy(correctChars, totalChars),
		CorrectChars:   correctChars,
		IncorrectChars: totalChars - correctChars,
		TotalChars:     totalChars,
		TimeTaken:      elapsedSeconds,
	}
}
