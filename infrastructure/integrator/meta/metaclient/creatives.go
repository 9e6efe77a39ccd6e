package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

const adCreativeFields = "id,name,effective_status,created_time," +
	"creative{id,image_url,video_id,object_story_id,effective_object_story_id,thumbnail_url}"

// GetAdsWithCreatives resolve um lote de anúncios com seus criativos via
// lookup ids=... em uma única chamada
func (c *MetaClient) GetAdsWithCreatives(
	ctx context.Context,
	token string,
	adIDs []string,
) (map[string]*metadomain.AdWithCreative, *domain.UsageSnapshot, error) {
	if len(adIDs) == 0 {
		return map[string]*metadomain.AdWithCreative{}, nil, nil
	}

	params := &url.Values{}
	params.Add("ids", strings.Join(adIDs, ","))
	params.Add("fields", adCreativeFields)
	params.Add("access_token", token)

	body, usage, err := c.doGet(ctx, c.Cfg.Meta.URL+"/?"+params.Encode(), "")
	if err != nil {
		return nil, usage, err
	}

	ads := make(map[string]*metadomain.AdWithCreative)
	if err := json.Unmarshal(body, &ads); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON de criativos")
		return nil, usage, err
	}

	return ads, usage, nil
}

// GetStory resolve uma publicação (object_story_id) em permalink e imagem,
// usado como fallback quando o criativo não tem referência direta de mídia
func (c *MetaClient) GetStory(
	ctx context.Context,
	token, storyID string,
) (*metadomain.Story, *domain.UsageSnapshot, error) {
	params := &url.Values{}
	params.Add("fields", "id,permalink_url,full_picture")
	params.Add("access_token", token)

	body, usage, err := c.doGet(ctx, fmt.Sprintf("%s/%s?%s", c.Cfg.Meta.URL, storyID, params.Encode()), "")
	if err != nil {
		return nil, usage, err
	}

	var story metadomain.Story
	if err := json.Unmarshal(body, &story); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON da publicação")
		return nil, usage, err
	}

	return &story, usage, nil
}
