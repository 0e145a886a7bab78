package extract

import "github.com/AndreKortesz/mosgsm-duplicates-service/internal/model"

// ResolveWorkType maps the extracted amounts to a work category. Branch
// order is part of the contract: a row with both a diagnostic amount and a
// large payout is a diagnostic, not an installation. Historical reports
// depend on this ordering and on the threshold staying as configured.
func ResolveWorkType(diagnostic, inspection, payout *float64, installationThreshold float64) model.WorkType {
	switch {
	case diagnostic != nil && *diagnostic > 0:
		return model.WorkTypeDiagnostic
	case inspection != nil && *inspection > 0:
		return model.WorkTypeInspection
	case payout != nil && *payout > installationThreshold:
		return model.WorkTypeInstallation
	default:
		return model.WorkTypeOther
	}
}
