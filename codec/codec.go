// Package codec persists the profile under a single key and upgrades payloads
// written by older builds before anyone reads them.
package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/anjiri1684/wordpace/database"
	"github.com/anjiri1684/wordpace/models"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultKey is the store key the profile lives under.
const DefaultKey = "wordpace.profile"

var (
	ErrCorrupt        = errors.New("codec: corrupt profile payload")
	ErrInvalidVersion = errors.New("codec: invalid schema version")
)

var validate = validator.New()

// Report describes what Decode did with a payload.
type Report struct {
	FirstLaunch bool
	FromVersion int
	ToVersion   int
	Migrated    bool
	Corrupt     bool
	Err         error
}

type Codec struct {
	store database.KVStore
	key   string
	clock clockwork.Clock
	log   *zap.Logger
}

func New(store database.KVStore, key string, clock clockwork.Clock, log *zap.Logger) *Codec {
	if key == "" {
		key = DefaultKey
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Codec{store: store, key: key, clock: clock, log: log.Named("codec")}
}

func (c *Codec) Key() string { return c.key }

// Decode turns raw bytes into a current-schema profile. It never fails: any
// payload that cannot be fully decoded yields a fresh profile and a report
// with Corrupt set.
func Decode(raw []byte, now time.Time) (*models.Profile, Report) {
	if len(raw) == 0 {
		return models.NewProfile(now), Report{
			FirstLaunch: true,
			FromVersion: models.CurrentSchemaVersion,
			ToVersion:   models.CurrentSchemaVersion,
		}
	}

	p, report, err := decode(raw)
	if err != nil {
		report.Corrupt = true
		report.Err = err
		report.ToVersion = models.CurrentSchemaVersion
		return models.NewProfile(now), report
	}
	return p, report
}

func decode(raw []byte) (*models.Profile, Report, error) {
	var report Report

	if !json.Valid(raw) {
		return nil, report, fmt.Errorf("%w: malformed JSON", ErrCorrupt)
	}
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc == nil {
		return nil, report, fmt.Errorf("%w: payload is not an object", ErrCorrupt)
	}

	from := VersionOf(doc)
	report.FromVersion = from
	if from < 1 {
		return nil, report, fmt.Errorf("%w: %v", ErrInvalidVersion, doc["schemaVersion"])
	}

	if from < models.CurrentSchemaVersion {
		doc = Migrate(doc)
		report.Migrated = true
	}
	report.ToVersion = VersionOf(doc)

	upgraded, err := json.Marshal(doc)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var p models.Profile
	if err := json.Unmarshal(upgraded, &p); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	p.Normalize()
	if p.Extra, err = unknownFields(doc); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := validate.Struct(&p); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	for key := range p.DailyQuotas {
		if !key.Valid() {
			delete(p.DailyQuotas, key)
		}
	}
	return &p, report, nil
}

// Encode serializes p. Payloads are never written with a version lower than
// the one they were read with, and fields only a newer build knows are kept.
func Encode(p *models.Profile) ([]byte, error) {
	if p.SchemaVersion < models.CurrentSchemaVersion {
		p.SchemaVersion = models.CurrentSchemaVersion
	}
	raw, err := json.Marshal(p)
	if err != nil || len(p.Extra) == 0 {
		return raw, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for key, value := range p.Extra {
		if _, known := merged[key]; !known {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// profileKeys are the top-level JSON keys models.Profile maps.
var profileKeys = jsonKeys(reflect.TypeOf(models.Profile{}))

func jsonKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}

func unknownFields(doc Document) (map[string]json.RawMessage, error) {
	var extra map[string]json.RawMessage
	for key, value := range doc {
		if profileKeys[key] {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[key] = raw
	}
	return extra, nil
}

// Load reads, upgrades and returns the stored profile. Storage and decode
// failures are logged and answered with defaults.
func (c *Codec) Load(ctx context.Context) *models.Profile {
	now := c.clock.Now()
	raw, err := c.store.Get(ctx, c.key)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		c.log.Error("🔥 failed to read profile, using defaults", zap.Error(err))
		return models.NewProfile(now)
	}

	p, report := Decode(raw, now)
	switch {
	case report.Corrupt:
		c.log.Warn("corrupt profile payload, falling back to defaults",
			zap.Int("from_version", report.FromVersion), zap.Error(report.Err))
		if err := c.store.Set(ctx, c.key+".corrupt", raw); err != nil {
			c.log.Error("failed to keep corrupt payload", zap.Error(err))
		}
	case report.FirstLaunch:
		c.log.Info("no stored profile, first launch")
	case report.Migrated:
		c.log.Info("✅ profile migrated",
			zap.Int("from_version", report.FromVersion), zap.Int("to_version", report.ToVersion))
	case report.FromVersion > models.CurrentSchemaVersion:
		c.log.Warn("profile written by a newer build, reading known fields only",
			zap.Int("stored_version", report.FromVersion))
		return p
	default:
		return p
	}

	if err := c.Save(ctx, p); err != nil {
		c.log.Error("failed to persist upgraded profile", zap.Error(err))
	}
	return p
}

// Inspect decodes the stored profile without writing anything back.
func (c *Codec) Inspect(ctx context.Context) (*models.Profile, Report, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, Report{}, fmt.Errorf("read profile: %w", err)
	}
	p, report := Decode(raw, c.clock.Now())
	return p, report, nil
}

func (c *Codec) Save(ctx context.Context, p *models.Profile) error {
	raw, err := Encode(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}

// Delete removes the stored profile so the next Load starts from defaults.
func (c *Codec) Delete(ctx context.Context) error {
	return c.store.Delete(ctx, c.key)
}
