// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "testing"

func TestAddAnomalyOnceDedupes(t *testing.T) {
	m := &Module{}

	addAnomalyOnce(m, AnoRootNotFound+": A.Main")
	addAnomalyOnce(m, AnoRootNotFound+": A.Main")
	addAnomalyOnce(m, AnoRootNotFound+": B.Helper")

	if len(m.Anomalies) != 2 {
		t.Fatalf("got %d anomalies, want 2: %v", len(m.Anomalies), m.Anomalies)
	}
}

func TestIdentifyLiveCodeRecordsUnmatchedRoot(t *testing.T) {
	m := &Module{
		Types: []*TypeDef{
			{FullName: "A", Public: true, Methods: []*MethodDef{
				{FullName: "A.Main", Name: "Main"},
			}},
		},
	}

	roots := map[string]struct{}{"A.Main": {}, "Z.Ghost": {}}
	IdentifyLiveCode(m, roots)

	found := false
	for _, ano := range m.Anomalies {
		if ano == AnoRootNotFound+": Z.Ghost" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unmatched-root anomaly for Z.Ghost, got: %v", m.Anomalies)
	}
}
