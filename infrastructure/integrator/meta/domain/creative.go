package metadomain

// AdCreative é o criativo retornado pelo lookup em lote de anúncios
type AdCreative struct {
	ID                     string `json:"id"`
	ImageURL               string `json:"image_url,omitempty"`
	VideoID                string `json:"video_id,omitempty"`
	ObjectStoryID          string `json:"object_story_id,omitempty"`
	EffectiveObjectStoryID string `json:"effective_object_story_id,omitempty"`
	ThumbnailURL           string `json:"thumbnail_url,omitempty"`
}

// AdWithCreative é uma entrada do lookup em lote ids=... de anúncios
type AdWithCreative struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Status      string      `json:"effective_status"`
	CreatedTime string      `json:"created_time"`
	Creative    *AdCreative `json:"creative,omitempty"`
}

// Story é a publicação resolvida a partir de um object_story_id
type Story struct {
	ID           string `json:"id"`
	PermalinkURL string `json:"permalink_url,omitempty"`
	FullPicture  string `json:"full_picture,omitempty"`
}

// MediaRef é o resultado consolidado da resolução de mídia de um anúncio:
// referência direta primeiro, depois permalink da publicação, por último o
// thumbnail. URL vazia significa que nada pôde ser resolvido
type MediaRef struct {
	AdID   string
	URL    string
	Format string
}

// DetectFormat deduz o formato do anúncio a partir do criativo
func (a *AdWithCreative) DetectFormat() string {
	if a.Creative == nil {
		return "unknown"
	}
	if a.Creative.VideoID != "" {
		return "video"
	}
	if a.Creative.ImageURL != "" {
		return "image"
	}
	if a.Creative.ObjectStoryID != "" || a.Creative.EffectiveObjectStoryID != "" {
		return "story"
	}
	return "unknown"
}
