// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

// Anomalies found while cleaning a module. Following the teacher's own
// Ano*-prefixed string-constant sink pattern, these are non-fatal findings
// worth surfacing to a human reviewer rather than conditions the pipeline
// treats as failures.
var (
	// AnoRootNotFound is reported when an execution-log line does not
	// match any method full-name in the module.
	AnoRootNotFound = "execution log root does not match any method in the module"

	// AnoHelperNoCallSites is reported when a decryption-helper candidate
	// is discovered but never called anywhere in the module.
	AnoHelperNoCallSites = "decryption helper has no call sites"

	// AnoCallSiteMalformed is reported when a call to a decryption helper
	// does not match the expected setup idiom and is left unpatched.
	AnoCallSiteMalformed = "call site did not match the expected setup idiom"

	// AnoUnresolvedBaseType is reported when a type's base-type chain
	// cannot be fully resolved while testing for reflected-root
	// inheritance.
	AnoUnresolvedBaseType = "base type chain could not be fully resolved"
)

// addAnomalyOnce appends anomaly to m's anomaly list only if it is not
// already present, mirroring the teacher's addAnomaly dedupe guard.
func addAnomalyOnce(m *Module, anomaly string) {
	for _, existing := range m.Anomalies {
		if existing == anomaly {
			return
		}
	}
	m.Anomalies = append(m.Anomalies, anomaly)
}
