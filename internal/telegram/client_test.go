package telegram

import (
	"strings"
	"testing"

	"github.com/kungsholmen-og/kogstats/internal/models"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "Kungsholmen OG",
			want:  "Kungsholmen OG",
		},
		{
			name:  "score with dash",
			input: "75-80",
			want:  "75\\-80",
		},
		{
			name:  "full special set",
			input: "_*[]()~`>#+-=|{}.!",
			want:  "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!",
		},
		{
			name:  "mixed",
			input: "Team (away) - 3pts!",
			want:  "Team \\(away\\) \\- 3pts\\!",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeMarkdownV2(tt.input); got != tt.want {
				t.Errorf("escapeMarkdownV2(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatRunSummary(t *testing.T) {
	msg := formatRunSummary("Kungsholmen OG", 5, 12, &models.GameMetrics{
		Opponent:       "Visby Ladies",
		KogPoints:      75,
		OpponentPoints: 80,
		PointDiff:      -5,
	})

	for _, want := range []string{
		"*Kungsholmen OG stats updated*",
		"Games processed: 5",
		"Players tracked: 12",
		"❌",
		"75\\-80",
		"Visby Ladies",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("summary missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatRunSummary_ResultEmoji(t *testing.T) {
	tests := []struct {
		name      string
		pointDiff int
		want      string
	}{
		{name: "win", pointDiff: 12, want: "✅"},
		{name: "loss", pointDiff: -5, want: "❌"},
		{name: "draw", pointDiff: 0, want: "🤝"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := formatRunSummary("KOG", 1, 1, &models.GameMetrics{PointDiff: tt.pointDiff, Opponent: "Opp"})
			if !strings.Contains(msg, tt.want) {
				t.Errorf("summary missing %q:\n%s", tt.want, msg)
			}
		})
	}
}

func TestFormatRunSummary_NoLatestGame(t *testing.T) {
	msg := formatRunSummary("KOG", 0, 0, nil)
	if strings.Contains(msg, "Latest:") {
		t.Errorf("summary without metrics must omit the latest line:\n%s", msg)
	}
}
