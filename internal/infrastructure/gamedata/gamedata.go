package gamedata

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"flea_market/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Пути внутри каталога игровых данных.
const (
	itemsFile    = "templates/items.json"
	handbookFile = "templates/handbook.json"
	pricesFile   = "templates/prices.json"
	presetsFile  = "globals/presets.json"
	tradersDir   = "traders"
	traderBase   = "base.json"
	traderAssort = "assort.json"
	namesFile    = "bots/names.json"
	profilesGlob = "profiles/*.json"
)

type handbook struct {
	Items []struct {
		ID       string  `json:"Id"`
		ParentID string  `json:"ParentId"`
		Price    float64 `json:"Price"`
	} `json:"Items"`
}

type trader struct {
	base   entity.TraderBase
	assort entity.TraderAssort
}

// Database is the read-only game database plus the mutable trader resupply
// timers. Safe for concurrent use.
type Database struct {
	templates map[string]entity.Template
	presets   map[string]entity.Preset
	handbook  map[string]float64
	prices    map[string]float64
	profiles  map[string]entity.PlayerProfile
	names     []string

	mu      sync.RWMutex
	traders map[string]*trader
}

// Load reads the game database from dir. Items, handbook and presets are
// required, everything else is optional.
func Load(dir string) (*Database, error) {
	db := &Database{
		prices:   map[string]float64{},
		profiles: map[string]entity.PlayerProfile{},
		traders:  map[string]*trader{},
	}

	if err := readJSON(filepath.Join(dir, itemsFile), &db.templates); err != nil {
		return nil, err
	}

	if err := readJSON(filepath.Join(dir, presetsFile), &db.presets); err != nil {
		return nil, err
	}

	var hb handbook
	if err := readJSON(filepath.Join(dir, handbookFile), &hb); err != nil {
		return nil, err
	}

	db.handbook = make(map[string]float64, len(hb.Items))
	for _, it := range hb.Items {
		db.handbook[it.ID] = it.Price
	}

	if err := readOptionalJSON(filepath.Join(dir, pricesFile), &db.prices); err != nil {
		return nil, err
	}

	if err := readOptionalJSON(filepath.Join(dir, namesFile), &db.names); err != nil {
		return nil, err
	}

	if err := db.loadTraders(filepath.Join(dir, tradersDir)); err != nil {
		return nil, err
	}

	if err := db.loadProfiles(filepath.Join(dir, profilesGlob)); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *Database) loadTraders(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("os.ReadDir: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		t := &trader{}

		if err := readJSON(filepath.Join(dir, e.Name(), traderBase), &t.base); err != nil {
			return err
		}

		if err := readOptionalJSON(filepath.Join(dir, e.Name(), traderAssort), &t.assort); err != nil {
			return err
		}

		if t.base.ID == "" {
			t.base.ID = e.Name()
		}

		db.traders[t.base.ID] = t
	}

	return nil
}

func (db *Database) loadProfiles(pattern string) error {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("filepath.Glob: %w", err)
	}

	for _, f := range files {
		var p entity.PlayerProfile
		if err := readJSON(f, &p); err != nil {
			return err
		}

		if p.ID != "" {
			db.profiles[p.ID] = p
		}
	}

	return nil
}

func readJSON(path string, dest any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return nil
}

func readOptionalJSON(path string, dest any) error {
	err := readJSON(path, dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func (db *Database) Template(tpl string) (entity.Template, bool) {
	t, ok := db.templates[tpl]
	return t, ok
}

func (db *Database) Preset(id string) (entity.Preset, bool) {
	p, ok := db.presets[id]
	return p, ok
}

// AllTemplates returns templates ordered by id.
func (db *Database) AllTemplates() []entity.Template {
	out := make([]entity.Template, 0, len(db.templates))
	for _, id := range slices.Sorted(maps.Keys(db.templates)) {
		out = append(out, db.templates[id])
	}

	return out
}

// AllPresets returns presets ordered by id.
func (db *Database) AllPresets() []entity.Preset {
	out := make([]entity.Preset, 0, len(db.presets))
	for _, id := range slices.Sorted(maps.Keys(db.presets)) {
		out = append(out, db.presets[id])
	}

	return out
}

func (db *Database) HandbookPrice(tpl string) (float64, bool) {
	p, ok := db.handbook[tpl]
	return p, ok
}

// MarketPrices returns a copy of the static market price table.
func (db *Database) MarketPrices() map[string]float64 {
	return maps.Clone(db.prices)
}

func (db *Database) IsTrader(id string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()

	_, ok := db.traders[id]

	return ok
}

func (db *Database) Base(traderID string) (entity.TraderBase, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.traders[traderID]
	if !ok {
		return entity.TraderBase{}, false
	}

	return t.base, true
}

func (db *Database) Assort(traderID string) (entity.TraderAssort, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.traders[traderID]
	if !ok {
		return entity.TraderAssort{}, false
	}

	return t.assort, true
}

func (db *Database) TraderIDs() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return slices.Sorted(maps.Keys(db.traders))
}

// Resupply moves the trader's next resupply time past now in whole intervals.
// Returns the new time.
func (db *Database) Resupply(traderID string, now, interval int64) (int64, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	t, ok := db.traders[traderID]
	if !ok {
		return 0, false
	}

	interval = max(interval, 1)

	next := t.base.NextResupply
	if next <= now {
		next += ((now-next)/interval + 1) * interval
	}

	t.base.NextResupply = next

	return next, true
}

func (db *Database) PlayerProfile(id string) (entity.PlayerProfile, bool) {
	p, ok := db.profiles[id]
	return p, ok
}

// Names returns the nickname pool for simulated sellers.
func (db *Database) Names() []string {
	return db.names
}
