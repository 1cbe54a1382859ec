package scoring

import (
	"testing"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }

func TestNormalizeResolutionChain(t *testing.T) {
	t.Run("primary wins over fallback", func(t *testing.T) {
		raw := &vuln.RawSignals{
			ID:        "CVE-2024-0001",
			CVSSScore: fptr(9.8), CVSSLegacy: fptr(7.5),
			EPSS: fptr(0.42), EPSSFallback: fptr(0.10),
		}
		ns := Normalize(raw)

		if ns.Severity.Value != 9.8 || ns.Severity.Origin != vuln.OriginPrimary {
			t.Errorf("severity = %+v, want 9.8/primary", ns.Severity)
		}
		if ns.ExploitProbability.Value != 0.42 || ns.ExploitProbability.Origin != vuln.OriginPrimary {
			t.Errorf("exploit = %+v, want 0.42/primary", ns.ExploitProbability)
		}
	})

	t.Run("fallback when primary missing", func(t *testing.T) {
		raw := &vuln.RawSignals{ID: "CVE-2024-0001", CVSSLegacy: fptr(7.5), EPSSFallback: fptr(0.10)}
		ns := Normalize(raw)

		if ns.Severity.Value != 7.5 || ns.Severity.Origin != vuln.OriginFallback {
			t.Errorf("severity = %+v, want 7.5/fallback", ns.Severity)
		}
		if ns.ExploitProbability.Value != 0.10 || ns.ExploitProbability.Origin != vuln.OriginFallback {
			t.Errorf("exploit = %+v, want 0.10/fallback", ns.ExploitProbability)
		}
	})

	t.Run("exposure emulated from KEV flag", func(t *testing.T) {
		listed := Normalize(&vuln.RawSignals{ID: "CVE-2024-0001", KEVListed: bptr(true)})
		if listed.Exposure.Value != 10.0 || listed.Exposure.Origin != vuln.OriginEmulated {
			t.Errorf("exposure = %+v, want 10/emulated", listed.Exposure)
		}

		unlisted := Normalize(&vuln.RawSignals{ID: "CVE-2024-0001", KEVListed: bptr(false)})
		if unlisted.Exposure.Value != 0.0 || unlisted.Exposure.Origin != vuln.OriginEmulated {
			t.Errorf("exposure = %+v, want 0/emulated", unlisted.Exposure)
		}
	})

	t.Run("kve score preferred over KEV flag", func(t *testing.T) {
		ns := Normalize(&vuln.RawSignals{ID: "CVE-2024-0001", KVEScore: fptr(6.5), KEVListed: bptr(true)})
		if ns.Exposure.Value != 6.5 || ns.Exposure.Origin != vuln.OriginPrimary {
			t.Errorf("exposure = %+v, want 6.5/primary", ns.Exposure)
		}
	})

	t.Run("absent carries zero", func(t *testing.T) {
		ns := Normalize(&vuln.RawSignals{ID: "CVE-2024-0001"})

		for name, sig := range map[string]vuln.Signal{
			"severity": ns.Severity,
			"exploit":  ns.ExploitProbability,
			"exposure": ns.Exposure,
			"activity": ns.Activity,
		} {
			if sig.Value != 0 || sig.Origin != vuln.OriginAbsent {
				t.Errorf("%s = %+v, want 0/absent", name, sig)
			}
			if sig.Present() {
				t.Errorf("%s reported present", name)
			}
		}
	})
}

func TestNormalizeClampsToDomain(t *testing.T) {
	raw := &vuln.RawSignals{
		ID:            "CVE-2024-0001",
		CVSSScore:     fptr(12.3),
		EPSS:          fptr(1.7),
		KVEScore:      fptr(-2.0),
		ActivityScore: fptr(10.5),
	}
	ns := Normalize(raw)

	if ns.Severity.Value != 10.0 {
		t.Errorf("severity clamp = %v, want 10", ns.Severity.Value)
	}
	if ns.ExploitProbability.Value != 1.0 {
		t.Errorf("exploit clamp = %v, want 1", ns.ExploitProbability.Value)
	}
	if ns.Exposure.Value != 0.0 {
		t.Errorf("exposure clamp = %v, want 0", ns.Exposure.Value)
	}
	if ns.Activity.Value != 10.0 {
		t.Errorf("activity clamp = %v, want 10", ns.Activity.Value)
	}

	// Clamped values are still real data, not absent
	if ns.Exposure.Origin != vuln.OriginPrimary {
		t.Errorf("clamped exposure origin = %v, want primary", ns.Exposure.Origin)
	}
}
