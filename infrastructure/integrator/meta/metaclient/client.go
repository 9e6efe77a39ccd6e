package metaclient

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-refresh-engine/internal/config"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

// DateWindow é a janela de datas de uma requisição de insights
type DateWindow struct {
	Since time.Time
	Until time.Time
}

// Days retorna o tamanho da janela em dias, inclusivo nas duas pontas
func (w DateWindow) Days() int {
	return int(w.Until.Sub(w.Since).Hours()/24) + 1
}

type Client interface {
	GetAdInsightsPage(ctx context.Context, token, accountID string, window DateWindow, after string) (*metadomain.InsightsResponse, *domain.UsageSnapshot, error)
	GetAdsWithCreatives(ctx context.Context, token string, adIDs []string) (map[string]*metadomain.AdWithCreative, *domain.UsageSnapshot, error)
	GetStory(ctx context.Context, token, storyID string) (*metadomain.Story, *domain.UsageSnapshot, error)
}

type MetaClient struct {
	Cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	timeout := cfg.Meta.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Timeouts independentes de conexão, TLS e resposta: nenhuma chamada pode
	// ficar pendurada além do timeout total configurado
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
	}

	return &MetaClient{
		Cfg: cfg,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// doGet executa a chamada, decodifica erros do provedor em APIError e sempre
// devolve o snapshot de uso extraído dos cabeçalhos da resposta
func (c *MetaClient) doGet(ctx context.Context, url, accountID string) ([]byte, *domain.UsageSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return nil, nil, err
	}
	defer resp.Body.Close()

	usage := ParseUsageHeaders(resp.Header, accountID)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, usage, err
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &metadomain.APIError{
			StatusCode:    resp.StatusCode,
			Message:       http.StatusText(resp.StatusCode),
			EstimatedWait: usage.SuggestedPause,
		}

		var errResp metadomain.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Code != 0 {
			apiErr.Code = errResp.Error.Code
			apiErr.Subcode = errResp.Error.ErrorSubcode
			apiErr.Type = errResp.Error.Type
			apiErr.Message = errResp.Error.Message
			apiErr.FBTraceID = errResp.Error.FBTraceID
		}

		return nil, usage, apiErr
	}

	return body, usage, nil
}
