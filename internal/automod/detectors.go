package automod

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fourjr/rainbot/internal/utils"
)

// massMentionLimit is fixed by protocol, not configurable per guild.
const massMentionLimit = 5

type detectorFunc func(ev MessageEvent, cfg GuildConfig) (bool, string)

// Detector describes one rule in the evaluation chain. Stateful
// detectors (spam, duplicates) are answered by the window tracker and
// carry a nil check.
type Detector struct {
	Kind     DetectionKind
	Stateful bool
	check    detectorFunc
}

// Detectors is the evaluation chain in priority order. The coordinator
// walks it top to bottom and stops at the first match.
var Detectors = []Detector{
	{Kind: DetectionMaxLines, check: checkMaxLines},
	{Kind: DetectionMaxWords, check: checkMaxWords},
	{Kind: DetectionMaxCharacters, check: checkMaxCharacters},
	{Kind: DetectionCapsMessage, check: checkCapsMessage},
	{Kind: DetectionRepetitiveCharacters, check: checkRepetitiveCharacters},
	{Kind: DetectionEnglishOnly, check: checkEnglishOnly},
	{Kind: DetectionInvites, check: checkInvites},
	{Kind: DetectionBadWords, check: checkBadWords},
	{Kind: DetectionMassMentions, check: checkMassMentions},
	{Kind: DetectionSpam, Stateful: true},
	{Kind: DetectionDuplicates, Stateful: true},
}

func checkMaxLines(ev MessageEvent, cfg GuildConfig) (bool, string) {
	limit := cfg.Threshold(KeyMaxLines)
	if limit <= 0 || ev.Content == "" {
		return false, ""
	}
	lines := strings.Count(ev.Content, "\n") + 1
	if lines > limit {
		return true, fmt.Sprintf("message has %d lines (limit %d)", lines, limit)
	}
	return false, ""
}

func checkMaxWords(ev MessageEvent, cfg GuildConfig) (bool, string) {
	limit := cfg.Threshold(KeyMaxWords)
	if limit <= 0 {
		return false, ""
	}
	words := len(strings.Fields(ev.Content))
	if words > limit {
		return true, fmt.Sprintf("message has %d words (limit %d)", words, limit)
	}
	return false, ""
}

func checkMaxCharacters(ev MessageEvent, cfg GuildConfig) (bool, string) {
	limit := cfg.Threshold(KeyMaxCharacters)
	if limit <= 0 {
		return false, ""
	}
	chars := utf8.RuneCountInString(ev.Content)
	if chars > limit {
		return true, fmt.Sprintf("message has %d characters (limit %d)", chars, limit)
	}
	return false, ""
}

func checkCapsMessage(ev MessageEvent, cfg GuildConfig) (bool, string) {
	percent := cfg.Threshold(KeyCapsMessagePercent)
	minLength := cfg.Threshold(KeyCapsMessageMinLength)
	if percent <= 0 || minLength <= 0 {
		return false, ""
	}
	total := utf8.RuneCountInString(ev.Content)
	if total < minLength {
		return false, ""
	}
	caps := 0
	for _, r := range ev.Content {
		if unicode.IsUpper(r) {
			caps++
		}
	}
	ratio := float64(caps) / float64(total) * 100
	if ratio > float64(percent) {
		return true, fmt.Sprintf("message is %.0f%% uppercase (limit %d%%)", ratio, percent)
	}
	return false, ""
}

func checkRepetitiveCharacters(ev MessageEvent, cfg GuildConfig) (bool, string) {
	threshold := cfg.Threshold(KeyRepetitiveCharacters)
	if threshold <= 0 {
		return false, ""
	}
	counts := make(map[rune]int)
	top := 0
	for _, r := range ev.Content {
		counts[r]++
		if counts[r] > top {
			top = counts[r]
		}
	}
	if top > threshold {
		return true, fmt.Sprintf("character repeated %d times (limit %d)", top, threshold)
	}
	return false, ""
}

func checkEnglishOnly(ev MessageEvent, cfg GuildConfig) (bool, string) {
	for _, r := range ev.Content {
		if !isAllowedRune(r) {
			return true, fmt.Sprintf("non-english character %q", r)
		}
	}
	return false, ""
}

func checkInvites(ev MessageEvent, cfg GuildConfig) (bool, string) {
	codes := utils.ExtractInviteCodes(ev.Content)
	for _, code := range codes {
		if inviteAllowed(code, cfg.InviteAllowlist) {
			continue
		}
		return true, "invite link discord.gg/" + code
	}
	return false, ""
}

func checkBadWords(ev MessageEvent, cfg GuildConfig) (bool, string) {
	if len(cfg.BadWords) == 0 {
		return false, ""
	}
	content := strings.ToLower(ev.Content)
	for _, word := range cfg.BadWords {
		word = strings.ToLower(word)
		if word != "" && strings.Contains(content, word) {
			return true, "blocked word " + word
		}
	}
	return false, ""
}

func checkMassMentions(ev MessageEvent, cfg GuildConfig) (bool, string) {
	if ev.Mentions > massMentionLimit {
		return true, fmt.Sprintf("%d mentions (limit %d)", ev.Mentions, massMentionLimit)
	}
	return false, ""
}

func inviteAllowed(code string, allowlist []string) bool {
	for _, allowed := range allowlist {
		if strings.EqualFold(code, allowed) {
			return true
		}
	}
	return false
}

// isAllowedRune covers printable ASCII, common whitespace, typographic
// quotes and dashes, and emoji.
func isAllowedRune(r rune) bool {
	if r >= 0x20 && r <= 0x7E {
		return true
	}
	switch r {
	case '\n', '\r', '\t',
		'‘', '’', '“', '”',
		'–', '—', '…':
		return true
	}
	switch {
	case r == 0x200D || r == 0xFE0F: // zero-width joiner, emoji variation selector
		return true
	case r >= 0x1F000 && r <= 0x1FAFF: // emoji and pictographs
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows used as emoji
		return true
	}
	return false
}
