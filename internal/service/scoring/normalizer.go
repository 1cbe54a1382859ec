package scoring

import (
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

// Signal domains. Values outside a domain are clamped, not rejected.
const (
	severityMax = 10.0
	exploitMax  = 1.0
	exposureMax = 10.0
	activityMax = 10.0
)

// Normalize resolves each signal kind through its fallback chain and clamps
// the result to its declared domain:
//
//	severity:  cvss_score → cvss_v31_score → absent
//	exploit:   epss → epss_score → absent
//	exposure:  kve_score → kev flag (true=10, false=0) → absent
//	activity:  activity_score → absent
//
// Missing data never fails; an absent signal carries value 0 for arithmetic
// and OriginAbsent for display.
func Normalize(raw *vuln.RawSignals) vuln.NormalizedSignals {
	return vuln.NormalizedSignals{
		Severity:           resolve(raw.CVSSScore, raw.CVSSLegacy, severityMax),
		ExploitProbability: resolve(raw.EPSS, raw.EPSSFallback, exploitMax),
		Exposure:           resolveEmulated(raw.KVEScore, raw.KEVListed, exposureMax),
		Activity:           resolve(raw.ActivityScore, nil, activityMax),
	}
}

func resolve(primary, fallback *float64, max float64) vuln.Signal {
	if primary != nil {
		return vuln.Signal{Value: clamp(*primary, max), Origin: vuln.OriginPrimary}
	}
	if fallback != nil {
		return vuln.Signal{Value: clamp(*fallback, max), Origin: vuln.OriginFallback}
	}
	return vuln.Signal{Origin: vuln.OriginAbsent}
}

func resolveEmulated(primary *float64, flag *bool, max float64) vuln.Signal {
	if primary != nil {
		return vuln.Signal{Value: clamp(*primary, max), Origin: vuln.OriginPrimary}
	}
	if flag != nil {
		v := 0.0
		if *flag {
			v = max
		}
		return vuln.Signal{Value: v, Origin: vuln.OriginEmulated}
	}
	return vuln.Signal{Origin: vuln.OriginAbsent}
}

func clamp(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
