package provider

import (
	"context"
	"time"
	"unicode"

	"github.com/hammamikhairi/lrcshow/internal/domain"
)

// DemoLyrics is the script played by RunDemo when no lines are given.
var DemoLyrics = []string{
	"Streetlights hum a borrowed tune",
	"Counting buses under the moon",
	"Every window holds a different song",
	"Café signs blinking all night long",
	"Hold the chorus, let it ring",
	"Mañana we will learn to sing",
	"",
	"Streetlights hum a borrowed tune",
	"Counting buses under the moon",
}

// RunDemo plays lines word by word through m, one word per step, and
// starts over after the last line. Blank lines get one step with an empty
// segment. Blocks until ctx is done.
func RunDemo(ctx context.Context, m *Memory, lines []string, step time.Duration) {
	if len(lines) == 0 {
		lines = DemoLyrics
	}
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	start := time.Now()
	for {
		m.SetLyrics(lines)
		for i, line := range lines {
			words := wordSpans(line)
			if len(words) == 0 {
				words = [][2]int{{0, 0}}
			}
			for _, w := range words {
				select {
				case <-ctx.Done():
					m.SetPosition(domain.NoPosition)
					return
				case <-ticker.C:
				}
				m.SetPosition(domain.Position{
					LineIndex: i,
					CharFrom:  w[0],
					CharTo:    w[1],
					Elapsed:   int(time.Since(start).Milliseconds()),
				})
			}
		}
	}
}

// wordSpans returns the byte ranges of the space-separated words of line.
func wordSpans(line string) [][2]int {
	var spans [][2]int
	start := -1
	for i, r := range line {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, [2]int{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, [2]int{start, len(line)})
	}
	return spans
}
