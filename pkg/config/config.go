package config

import (
	_ "embed"
	"errors"
	"strings"

	pmerrors "github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as settings
const EnvPrefix = "PACKMERGE_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Config holds every packmerge setting
type Config struct {
	Merge  Merge  `koanf:"merge"`
	Hash   Hash   `koanf:"hash"`
	Output Output `koanf:"output"`
}

// Merge settings
type Merge struct {
	Workers  int      `koanf:"workers"`
	Strategy string   `koanf:"strategy"`
	Exclude  []string `koanf:"exclude"`
}

// Hash settings
type Hash struct {
	Buffer int `koanf:"buffer"`
}

// Output settings
type Output struct {
	Color  string `koanf:"color"`
	Format string `koanf:"format"`
}

// Default returns the embedded defaults alone.
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, pmerrors.Wrap(err, pmerrors.ErrConfigLoad, "failed to load default config")
	}
	return unmarshal(k)
}

// Load layers defaults, environment and overrides. Override keys use dotted
// paths such as "merge.workers"; nil values are ignored.
func Load(overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, pmerrors.Wrap(err, pmerrors.ErrConfigLoad, "failed to load default config")
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, pmerrors.Wrap(err, pmerrors.ErrConfigLoad, "failed to load env vars")
	}

	set := make(map[string]interface{}, len(overrides))
	for key, value := range overrides {
		if value != nil {
			set[key] = value
		}
	}
	if len(set) > 0 {
		if err := k.Load(confmap.Provider(set, "."), nil); err != nil {
			return nil, pmerrors.Wrap(err, pmerrors.ErrConfigLoad, "failed to load overrides")
		}
	}

	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, pmerrors.Wrap(err, pmerrors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Names of strategies, formats and color
// modes are checked by the packages that own them.
func (c *Config) Validate() error {
	if c.Merge.Workers < 0 {
		return pmerrors.Newf(pmerrors.ErrConfigLoad, "merge.workers must not be negative, got %d", c.Merge.Workers)
	}
	if c.Hash.Buffer <= 0 {
		return pmerrors.Newf(pmerrors.ErrConfigLoad, "hash.buffer must be positive, got %d", c.Hash.Buffer)
	}
	return nil
}
