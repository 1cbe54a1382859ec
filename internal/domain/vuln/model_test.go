package vuln

import (
	"testing"
	"time"
)

func TestPartitionKey(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"CVE-2024-12345", "2024"},
		{"CVE-1999-0001", "1999"},
		{"GHSA-2021-4444", "2021"},
		{"CVE-20xx-0001", ""},
		{"CVE-2024", ""},
		{"nodashes", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := PartitionKey(c.id); got != c.want {
			t.Errorf("PartitionKey(%q) = %q, want %q", c.id, got, c.want)
		}
	}
}

func TestValidateID(t *testing.T) {
	valid := []string{"CVE-2024-0001", "CVE-1999-123456", "KVE-2023-0042"}
	for _, id := range valid {
		if !ValidateID(id) {
			t.Errorf("ValidateID(%q) = false, want true", id)
		}
	}

	invalid := []string{"", "CVE-2024", "cve-2024-0001", "CVE-24-0001", "CVE-2024-", "'; DROP TABLE--"}
	for _, id := range invalid {
		if ValidateID(id) {
			t.Errorf("ValidateID(%q) = true, want false", id)
		}
	}
}

func TestNormalizeID(t *testing.T) {
	if got := NormalizeID("  cve-2024-0001 "); got != "CVE-2024-0001" {
		t.Errorf("NormalizeID = %q", got)
	}
}

func TestValidateWindow(t *testing.T) {
	valid := []string{"7d", "30d", "24h", "2w"}
	for _, w := range valid {
		if !ValidateWindow(w) {
			t.Errorf("ValidateWindow(%q) = false, want true", w)
		}
	}

	invalid := []string{"", "d7", "7", "7 days", "7m", "99999d"}
	for _, w := range invalid {
		if ValidateWindow(w) {
			t.Errorf("ValidateWindow(%q) = true, want false", w)
		}
	}
}

func TestTimestampsLatest(t *testing.T) {
	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	modified := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("last modified wins when newer", func(t *testing.T) {
		ts := Timestamps{Published: &published, LastModified: &modified}
		if !ts.Latest().Equal(modified) {
			t.Errorf("Latest = %v, want %v", ts.Latest(), modified)
		}
	})

	t.Run("published alone", func(t *testing.T) {
		ts := Timestamps{Published: &published}
		if !ts.Latest().Equal(published) {
			t.Errorf("Latest = %v, want %v", ts.Latest(), published)
		}
	})

	t.Run("neither present yields zero time", func(t *testing.T) {
		var ts Timestamps
		if !ts.Latest().IsZero() {
			t.Errorf("Latest = %v, want zero", ts.Latest())
		}
	})
}

func TestSignalPresent(t *testing.T) {
	if (Signal{Origin: OriginAbsent}).Present() {
		t.Error("absent signal reported present")
	}
	for _, origin := range []Origin{OriginPrimary, OriginFallback, OriginEmulated} {
		if !(Signal{Origin: origin}).Present() {
			t.Errorf("%s signal reported absent", origin)
		}
	}
}
