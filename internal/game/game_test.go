package game

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	g := New("abc123", 2041, 65, "away-tid", "home-tid", 6, 7)

	if g.ID != "abc123" || g.Year != 2041 || g.Day != 65 {
		t.Errorf("New() = %+v, unexpected identity fields", g)
	}
	if g.Away != "away-tid" || g.Home != "home-tid" {
		t.Errorf("New() teams = %q/%q", g.Away, g.Home)
	}
	if g.AwayRuns != 6 || g.HomeRuns != 7 {
		t.Errorf("New() runs = %d/%d", g.AwayRuns, g.HomeRuns)
	}
	if g.DiscoveredAt.IsZero() {
		t.Error("New() should set DiscoveredAt")
	}
}

func TestSameResult(t *testing.T) {
	base := New("g1", 2041, 10, "a", "h", 1, 2)

	tests := []struct {
		name  string
		other *Game
		want  bool
	}{
		{"identical", &Game{ID: "g1", Year: 2041, Day: 10, Away: "a", Home: "h", AwayRuns: 1, HomeRuns: 2}, true},
		{"different day", &Game{ID: "g1", Year: 2041, Day: 11, Away: "a", Home: "h", AwayRuns: 1, HomeRuns: 2}, false},
		{"different runs", &Game{ID: "g1", Year: 2041, Day: 10, Away: "a", Home: "h", AwayRuns: 3, HomeRuns: 2}, false},
		{"swapped teams", &Game{ID: "g1", Year: 2041, Day: 10, Away: "h", Home: "a", AwayRuns: 1, HomeRuns: 2}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.SameResult(tt.other); got != tt.want {
				t.Errorf("SameResult() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	g := &Game{ID: "sid-1", Year: 2039, Day: 65, Away: "50ebd2f2", Home: "9de82fcb", AwayRuns: 6, HomeRuns: 7}

	meta := g.Metadata()
	want := map[string]string{
		"year": "2039", "day": "65", "away": "50ebd2f2", "home": "9de82fcb", "away_r": "6", "home_r": "7",
	}
	if !reflect.DeepEqual(meta, want) {
		t.Fatalf("Metadata() = %v, want %v", meta, want)
	}

	back, err := FromMetadata("sid-1", meta)
	if err != nil {
		t.Fatalf("FromMetadata() error = %v", err)
	}
	if !back.SameResult(g) {
		t.Errorf("FromMetadata() = %+v, want %+v", back, g)
	}
}

func TestFromMetadata(t *testing.T) {
	tests := []struct {
		name    string
		meta    map[string]string
		wantDay int
		wantErr bool
	}{
		{
			name:    "capitalized keys",
			meta:    map[string]string{"Year": "2040", "Day": "3", "Away": "a", "Home": "h", "Away_r": "0", "Home_r": "1"},
			wantDay: 3,
		},
		{
			name:    "missing day",
			meta:    map[string]string{"year": "2040", "away": "a", "home": "h", "away_r": "0", "home_r": "1"},
			wantErr: true,
		},
		{
			name:    "non-numeric runs",
			meta:    map[string]string{"year": "2040", "day": "3", "away": "a", "home": "h", "away_r": "x", "home_r": "1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromMetadata("id", tt.meta)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromMetadata() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && g.Day != tt.wantDay {
				t.Errorf("Day = %d, want %d", g.Day, tt.wantDay)
			}
		})
	}
}

func TestIsReplayKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"abc123", false},
		{ReplayKey("abc123"), true},
		{"abc123-replay", true},
		{"-replay", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := IsReplayKey(tt.key); got != tt.want {
				t.Errorf("IsReplayKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestFormatMessage(t *testing.T) {
	got := FormatMessage("TeamX: P. Ace threw a no-hitter against the TeamY!", 65)
	want := "TeamX: P. Ace threw a no-hitter against the TeamY! [Day 65]"
	if got != want {
		t.Errorf("FormatMessage() = %q, want %q", got, want)
	}
}
