package transcribe

import (
	"regexp"
	"strings"
)

// fillerRe matches transcription artifacts the backends are known to
// emit on silence or background noise.
var fillerRe = regexp.MustCompile(`(?i)` +
	`thanks for watching!?` +
	`|thank you for watching!?` +
	`|subtitles by the amara\.org community` +
	`|字幕由\s*amara\.org\s*社区提供` +
	`|请不吝点赞\s*订阅\s*转发\s*打赏支持明镜与点点栏目`)

// CleanTranscript strips known filler phrases and trims whitespace.
func CleanTranscript(text string) string {
	return strings.TrimSpace(fillerRe.ReplaceAllString(text, ""))
}
