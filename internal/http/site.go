package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hayatfoundation/site/internal/database/content"
	"github.com/hayatfoundation/site/internal/database/stats"
	"github.com/hayatfoundation/site/internal/entities"
	"github.com/hayatfoundation/site/internal/format"
	"github.com/hayatfoundation/site/internal/locale"
)

// ProfileController serves the foundation profile singleton.
type ProfileController struct {
	resource *ResourceController[entities.FoundationProfile]
}

func NewProfileController(resource *ResourceController[entities.FoundationProfile]) *ProfileController {
	return &ProfileController{resource: resource}
}

func (pc *ProfileController) current(c *gin.Context) (*entities.FoundationProfile, bool) {
	items, _, err := pc.resource.repo.FindMany(c.Request.Context(), content.Filter{
		Limit:   1,
		OrderBy: "id",
		Order:   "asc",
	})
	if err != nil {
		respondUpstream(c, err, "get foundation profile")
		return nil, false
	}
	if len(items) == 0 {
		respondNotFound(c, "foundation profile")
		return nil, false
	}
	return &items[0], true
}

// Get handles GET /api/foundation-profile and GET /api/cms/foundation-profile.
func (pc *ProfileController) Get(c *gin.Context) {
	profile, ok := pc.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ItemResponse{Success: true, Item: profile})
}

// Update handles PATCH /api/cms/foundation-profile.
func (pc *ProfileController) Update(c *gin.Context) {
	profile, ok := pc.current(c)
	if !ok {
		return
	}
	pc.resource.update(c, profile.ID)
}

// StatsReader returns aggregate counts for the landing page.
type StatsReader interface {
	Counts(ctx context.Context) (*stats.Counts, error)
}

type StatsController struct {
	reader StatsReader
}

func NewStatsController(reader StatsReader) *StatsController {
	return &StatsController{reader: reader}
}

// Stats handles GET /api/stats. Labels are compact numbers in the requested
// language, e.g. 1.2K.
func (sc *StatsController) Stats(c *gin.Context) {
	lang := locale.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))

	counts, err := sc.reader.Counts(c.Request.Context())
	if err != nil {
		respondUpstream(c, err, "load stats")
		return
	}

	values := map[string]int64{
		"programs":      counts.Programs,
		"projects":      counts.Projects,
		"activities":    counts.Activities,
		"news":          counts.News,
		"beneficiaries": counts.Beneficiaries,
		"donations":     counts.Donations,
		"volunteers":    counts.Volunteers,
		"partners":      counts.Partners,
		"subscribers":   counts.Subscribers,
	}
	labels := make(map[string]string, len(values))
	for k, v := range values {
		labels[k] = format.CompactNumber(v, lang)
	}

	respondData(c, http.StatusOK, gin.H{
		"counts": counts,
		"labels": labels,
		"lang":   lang,
		"dir":    locale.Dir(lang),
	})
}
