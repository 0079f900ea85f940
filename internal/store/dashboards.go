package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"campaigndash-be/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrDuplicateSlug = errors.New("a dashboard with this name already exists")

var slugStripRe = regexp.MustCompile(`[^a-z0-9\s-]`)
var hyphenRunRe = regexp.MustCompile(`-+`)

// Slugify turns a dashboard name into its URL-safe identifier. Returns ""
// when nothing usable remains.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugStripRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return strings.TrimSpace(s)
}

// DashboardStore is the file-backed registry of saved dashboards.
type DashboardStore struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

func NewDashboardStore(dataDir string, log *zap.Logger) *DashboardStore {
	return &DashboardStore{
		path: filepath.Join(dataDir, "dashboards.json"),
		log:  log,
	}
}

func (s *DashboardStore) load() ([]models.Dashboard, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var dashboards []models.Dashboard
	if err := json.Unmarshal(data, &dashboards); err != nil {
		return nil, err
	}
	return dashboards, nil
}

func (s *DashboardStore) save(dashboards []models.Dashboard) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(dashboards, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Create registers a dashboard under the slug derived from its name. The
// primary category is the most frequent category among the selection.
func (s *DashboardStore) Create(req models.CreateDashboardRequest, slug string) (*models.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dashboards, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, d := range dashboards {
		if d.Slug == slug {
			return nil, ErrDuplicateSlug
		}
	}

	selected := make(map[string]bool, len(req.SelectedCampaigns))
	for _, id := range req.SelectedCampaigns {
		selected[id] = true
	}
	var campaigns []models.Campaign
	for _, c := range req.Campaigns {
		if selected[c.ID] {
			campaigns = append(campaigns, c)
		}
	}

	dashboard := models.Dashboard{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Slug:              slug,
		SelectedCampaigns: req.SelectedCampaigns,
		Campaigns:         campaigns,
		PrimaryCategory:   primaryCategory(campaigns),
		CreatedAt:         time.Now().UTC(),
		IsActive:          true,
	}
	dashboards = append(dashboards, dashboard)
	if err := s.save(dashboards); err != nil {
		return nil, err
	}
	s.log.Info("created dashboard", zap.String("slug", slug), zap.Int("campaigns", len(campaigns)))
	return &dashboard, nil
}

// List returns every saved dashboard.
func (s *DashboardStore) List() ([]models.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Delete removes a dashboard by id.
func (s *DashboardStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dashboards, err := s.load()
	if err != nil {
		return err
	}
	for i := range dashboards {
		if dashboards[i].ID == id {
			dashboards = append(dashboards[:i], dashboards[i+1:]...)
			return s.save(dashboards)
		}
	}
	return ErrNotFound
}

func primaryCategory(campaigns []models.Campaign) models.Category {
	counts := make(map[models.Category]int)
	for _, c := range campaigns {
		counts[c.Category]++
	}

	primary := models.CategoryAll
	best := 0
	for category, n := range counts {
		if n > best {
			primary = category
			best = n
		}
	}
	return primary
}
