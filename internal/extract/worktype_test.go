package extract

import (
	"testing"

	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestResolveWorkType(t *testing.T) {
	tests := []struct {
		name       string
		diagnostic *float64
		inspection *float64
		payout     *float64
		expected   model.WorkType
	}{
		{"diagnostic amount set", f(500), nil, nil, model.WorkTypeDiagnostic},
		{"diagnostic beats large payout", f(100), nil, f(6000), model.WorkTypeDiagnostic},
		{"diagnostic beats inspection", f(100), f(200), f(6000), model.WorkTypeDiagnostic},
		{"inspection amount set", nil, f(800), nil, model.WorkTypeInspection},
		{"inspection beats large payout", nil, f(800), f(9000), model.WorkTypeInspection},
		{"payout above threshold", nil, nil, f(6000), model.WorkTypeInstallation},
		{"payout at threshold", nil, nil, f(5000), model.WorkTypeOther},
		{"payout below threshold", nil, nil, f(4500), model.WorkTypeOther},
		{"zero diagnostic ignored", f(0), nil, f(6000), model.WorkTypeInstallation},
		{"zero inspection ignored", nil, f(0), f(6000), model.WorkTypeInstallation},
		{"nothing set", nil, nil, nil, model.WorkTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveWorkType(tt.diagnostic, tt.inspection, tt.payout, 5000)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveWorkTypeCustomThreshold(t *testing.T) {
	assert.Equal(t, model.WorkTypeInstallation, ResolveWorkType(nil, nil, f(4800), 4500))
	assert.Equal(t, model.WorkTypeOther, ResolveWorkType(nil, nil, f(4800), 5000))
}
