package metaclient

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUsageHeadersAppUsage(t *testing.T) {
	header := http.Header{}
	header.Set("X-App-Usage", `{"call_count":25,"total_time":40,"total_cputime":10}`)

	snapshot := ParseUsageHeaders(header, "act_1")

	require.NotNil(t, snapshot)
	assert.Equal(t, "act_1", snapshot.AccountID)
	// Utilização é o máximo entre as dimensões observadas
	assert.Equal(t, 40.0, snapshot.Utilization)
	assert.Zero(t, snapshot.SuggestedPause)
}

func TestParseUsageHeadersAdAccountUsage(t *testing.T) {
	header := http.Header{}
	header.Set("X-App-Usage", `{"call_count":10}`)
	header.Set("X-Ad-Account-Usage", `{"acc_id_util_pct":87.5}`)

	snapshot := ParseUsageHeaders(header, "act_1")

	assert.Equal(t, 87.5, snapshot.Utilization)
}

func TestParseUsageHeadersBusinessUseCase(t *testing.T) {
	header := http.Header{}
	header.Set("X-Business-Use-Case-Usage", `{"act_1":[{"type":"ads_insights","call_count":95,"total_time":20,"total_cputime":15,"estimated_time_to_regain_access":5}]}`)

	snapshot := ParseUsageHeaders(header, "act_1")

	assert.Equal(t, 95.0, snapshot.Utilization)
	// A estimativa de retomada vem em minutos e é autoritativa
	assert.Equal(t, 5*time.Minute, snapshot.SuggestedPause)
}

func TestParseUsageHeadersIgnoresOtherAccounts(t *testing.T) {
	header := http.Header{}
	header.Set("X-Business-Use-Case-Usage", `{"act_2":[{"call_count":99}]}`)

	snapshot := ParseUsageHeaders(header, "act_1")

	assert.Zero(t, snapshot.Utilization)
}

func TestParseUsageHeadersFailsOpen(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
	}{
		{
			name:   "Sem cabeçalhos de uso",
			header: http.Header{},
		},
		{
			name: "Payload malformado",
			header: http.Header{
				"X-App-Usage": []string{`{{{não é json`},
			},
		},
		{
			name: "Business use case malformado",
			header: http.Header{
				"X-Business-Use-Case-Usage": []string{`[1,2,3]`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := ParseUsageHeaders(tt.header, "act_1")

			// Telemetria é consultiva: malformada ou ausente nunca gera erro
			require.NotNil(t, snapshot)
			assert.Zero(t, snapshot.Utilization)
			assert.Zero(t, snapshot.SuggestedPause)
		})
	}
}
