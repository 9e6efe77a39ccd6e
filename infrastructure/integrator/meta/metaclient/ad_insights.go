package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

const adInsightFields = "ad_id,ad_name,campaign_id,campaign_name,adset_id,adset_name," +
	"account_id,account_name,impressions,clicks,unique_clicks,spend,reach," +
	"actions,action_values,account_currency"

// GetAdInsightsPage busca uma página de insights por anúncio e por dia. O
// cursor after encadeia a paginação: a página N+1 exige o cursor devolvido
// pela página N, então as páginas são consumidas estritamente em sequência
func (c *MetaClient) GetAdInsightsPage(
	ctx context.Context,
	token, accountID string,
	window DateWindow,
	after string,
) (*metadomain.InsightsResponse, *domain.UsageSnapshot, error) {
	baseURL := fmt.Sprintf("%s/act_%s/insights", c.Cfg.Meta.URL, accountID)

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}",
		window.Since.Format(time.DateOnly), window.Until.Format(time.DateOnly))

	params := &url.Values{}
	params.Add("fields", adInsightFields)
	params.Add("level", "ad")
	params.Add("time_increment", "1")
	params.Add("time_range", timeRange)
	params.Add("limit", fmt.Sprintf("%d", c.Cfg.Meta.PageLimit))
	params.Add("access_token", token)
	if after != "" {
		params.Add("after", after)
	}

	body, usage, err := c.doGet(ctx, baseURL+"?"+params.Encode(), accountID)
	if err != nil {
		return nil, usage, err
	}

	var response metadomain.InsightsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON de insights")
		return nil, usage, err
	}

	return &response, usage, nil
}
