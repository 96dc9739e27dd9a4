package flipper

import (
	"strings"

	"irremote/internal/remote"
)

// buttonTokens maps normalised Flipper button names onto dispatcher tokens
var buttonTokens = map[string]byte{
	"power":        remote.TokenPower,
	"mute":         remote.TokenMute,
	"vol_up":       remote.TokenVolumeUp,
	"volume_up":    remote.TokenVolumeUp,
	"vol+":         remote.TokenVolumeUp,
	"vol_dn":       remote.TokenVolumeDown,
	"vol_down":     remote.TokenVolumeDown,
	"volume_down":  remote.TokenVolumeDown,
	"vol-":         remote.TokenVolumeDown,
	"ch_next":      remote.TokenChNext,
	"ch_up":        remote.TokenChNext,
	"channel_up":   remote.TokenChNext,
	"ch+":          remote.TokenChNext,
	"ch_prev":      remote.TokenChPrev,
	"ch_dn":        remote.TokenChPrev,
	"ch_down":      remote.TokenChPrev,
	"channel_down": remote.TokenChPrev,
	"ch-":          remote.TokenChPrev,
	"source":       remote.TokenInput,
	"input":        remote.TokenInput,
}

// TokenFor returns the dispatcher token for a Flipper button name
func TokenFor(name string) (byte, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "_")
	token, ok := buttonTokens[key]
	return token, ok
}

// TableFromSignals builds codes for every recognised Samsung32 button.
// The first signal wins when several names map to the same token.
// Names that were not used are returned as skipped.
func TableFromSignals(signals []Signal) ([]remote.Code, []string) {
	labels := make(map[byte]string)
	for _, c := range remote.DefaultCodes() {
		labels[c.Token] = c.Label
	}

	var (
		codes   []remote.Code
		skipped []string
	)
	seen := make(map[byte]bool)

	for _, s := range signals {
		token, ok := TokenFor(s.Name)
		if !ok || seen[token] {
			skipped = append(skipped, s.Name)
			continue
		}
		code, err := s.Code(token, labels[token])
		if err != nil {
			skipped = append(skipped, s.Name)
			continue
		}
		seen[token] = true
		codes = append(codes, code)
	}
	return codes, skipped
}
