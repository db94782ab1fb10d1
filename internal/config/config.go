package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const envPrefix = "OCDRIVE_"

type LoggingConfig struct {
	Level       string `koanf:"level" default:"info" description:"Logging level" validate:"oneof=debug info warn error"`
	Format      string `koanf:"format" default:"console" description:"Console log format" validate:"oneof=console json"`
	File        string `koanf:"file" description:"Logging file path"`
	MaxSize     int    `koanf:"max-size" default:"10" description:"Log file size in megabytes before rotation" validate:"min=1"`
	MaxBackups  int    `koanf:"max-backups" default:"3" description:"Rotated log files to keep"`
	MaxAge      int    `koanf:"max-age" default:"15" description:"Days to keep rotated log files"`
	Development bool   `koanf:"development" description:"Annotate log lines with callers"`
}

type CacheConfig struct {
	MaxSize   int           `koanf:"max-size" default:"10485760" description:"In-memory cache size in bytes"`
	TTL       time.Duration `koanf:"ttl" default:"1h" description:"Capability cache lifetime"`
	RedisAddr string        `koanf:"redis-addr" description:"Redis address, enables the redis cache"`
	RedisPass string        `koanf:"redis-pass" description:"Redis password"`
}

type StoreConfig struct {
	Path   string `koanf:"path" description:"Account database path (default $HOME/.ocdrive/accounts.db)"`
	Bucket string `koanf:"bucket" default:"accounts" description:"Account database bucket" validate:"required"`
}

type RemoteConfig struct {
	ServerURL          string        `koanf:"server-url" description:"Server base URL"`
	Account            string        `koanf:"account" description:"Account name (user@host) to operate on"`
	Timeout            time.Duration `koanf:"timeout" default:"60s" description:"Request timeout"`
	ConnectTimeout     time.Duration `koanf:"connect-timeout" default:"10s" description:"Connection timeout"`
	Rate               int           `koanf:"rate" default:"20" description:"Requests per second" validate:"gte=1"`
	RateBurst          int           `koanf:"rate-burst" default:"5" description:"Request burst"`
	RateLimit          bool          `koanf:"rate-limit" default:"true" description:"Enable request rate limiting"`
	MaxRetries         int           `koanf:"max-retries" default:"3" description:"Retries for idempotent requests on connection errors"`
	Proxy              string        `koanf:"proxy" description:"HTTP or SOCKS5 proxy URL"`
	InsecureSkipVerify bool          `koanf:"insecure-skip-verify" description:"Accept unverified server certificates"`
	UserAgent          string        `koanf:"user-agent" default:"ocdrive" description:"User agent"`
	Concurrency        int           `koanf:"concurrency" default:"4" description:"Parallel requests for batch operations" validate:"gte=1,lte=64"`
}

type WatchConfig struct {
	Schedule string `koanf:"schedule" default:"@every 5m" description:"Cron schedule for refreshing server state" validate:"required"`
}

type Config struct {
	Log    LoggingConfig `koanf:"log"`
	Cache  CacheConfig   `koanf:"cache"`
	Store  StoreConfig   `koanf:"store"`
	Remote RemoteConfig  `koanf:"remote"`
	Watch  WatchConfig   `koanf:"watch"`
}

type ConfigLoader struct {
	k        *koanf.Koanf
	cfg      interface{}
	validate *validator.Validate
}

func NewConfigLoader() *ConfigLoader {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("koanf")
		if name == "-" {
			return ""
		}
		return name
	})
	return &ConfigLoader{
		k:        koanf.New("."),
		validate: v,
	}
}

// RegisterFlags adds one flag per leaf field of cfg. Flag names are the koanf
// path joined with dashes, e.g. remote.server-url becomes remote-server-url.
func (cl *ConfigLoader) RegisterFlags(flags *pflag.FlagSet, prefix string, cfg interface{}) error {
	if flags.Lookup("config") == nil {
		flags.StringP("config", "c", "", "Config file path (default $HOME/.ocdrive/config.toml)")
	}
	return registerStruct(flags, prefix, reflect.TypeOf(cfg))
}

func registerStruct(flags *pflag.FlagSet, prefix string, t reflect.Type) error {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get("koanf")
		if key == "" || key == "-" {
			continue
		}
		name := key
		if prefix != "" {
			name = prefix + "-" + key
		}
		if isSection(f.Type) {
			if err := registerStruct(flags, name, f.Type); err != nil {
				return err
			}
			continue
		}
		if flags.Lookup(name) != nil {
			continue
		}
		if err := addFlag(flags, name, f.Type, f.Tag.Get("default"), f.Tag.Get("description")); err != nil {
			return errors.Wrapf(err, "flag %s", name)
		}
	}
	return nil
}

func isSection(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t != reflect.TypeOf(time.Duration(0))
}

func addFlag(flags *pflag.FlagSet, name string, t reflect.Type, def, usage string) error {
	switch {
	case t == reflect.TypeOf(time.Duration(0)):
		d := time.Duration(0)
		if def != "" {
			var err error
			if d, err = time.ParseDuration(def); err != nil {
				return err
			}
		}
		flags.Duration(name, d, usage)
	case t.Kind() == reflect.String:
		flags.String(name, def, usage)
	case t.Kind() == reflect.Bool:
		flags.Bool(name, def == "true", usage)
	case t.Kind() == reflect.Int, t.Kind() == reflect.Int64:
		v := int64(0)
		if def != "" {
			if err := weakDecode(def, &v); err != nil {
				return err
			}
		}
		if t.Kind() == reflect.Int {
			flags.Int(name, int(v), usage)
		} else {
			flags.Int64(name, v, usage)
		}
	default:
		return errors.Errorf("unsupported kind %s", t.Kind())
	}
	return nil
}

func weakDecode(in, out interface{}) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{WeaklyTypedInput: true, Result: out})
	if err != nil {
		return err
	}
	return d.Decode(in)
}

// flagProvider feeds pflag values into koanf under their dotted paths. With
// changedOnly unset it provides every flag default, which forms the lowest
// configuration layer.
type flagProvider struct {
	flags       *pflag.FlagSet
	keys        map[string]string
	changedOnly bool
}

func (p flagProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("flag provider does not support ReadBytes")
}

func (p flagProvider) Read() (map[string]interface{}, error) {
	flat := map[string]interface{}{}
	p.flags.VisitAll(func(f *pflag.Flag) {
		key, ok := p.keys[f.Name]
		if !ok || (p.changedOnly && !f.Changed) {
			return
		}
		flat[key] = f.Value.String()
	})
	return maps.Unflatten(flat, "."), nil
}

func configFile(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		path := filepath.Join(home, ".ocdrive", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load layers flag defaults, the config file, OCDRIVE_ environment variables
// and explicitly set flags, in that order, and decodes the result into cfg.
func (cl *ConfigLoader) Load(cmd *cobra.Command, cfg interface{}) error {
	cl.k = koanf.New(".")
	cl.cfg = cfg
	keys := keyPaths(cfg)

	if err := cl.k.Load(flagProvider{flags: cmd.Flags(), keys: keys}, nil); err != nil {
		return errors.Wrap(err, "load flag defaults")
	}

	if path := configFile(cmd); path != "" {
		var parser koanf.Parser = toml.Parser()
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		}
		if err := cl.k.Load(file.Provider(path), parser); err != nil {
			return errors.Wrapf(err, "read config file %s", path)
		}
	}

	if err := cl.k.Load(env.Provider(envPrefix, ".", func(s string) string {
		name := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
		return keys[name]
	}), nil); err != nil {
		return errors.Wrap(err, "load environment")
	}

	if err := cl.k.Load(flagProvider{flags: cmd.Flags(), keys: keys, changedOnly: true}, nil); err != nil {
		return errors.Wrap(err, "load flags")
	}

	return cl.k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			WeaklyTypedInput: true,
			TagName:          "koanf",
			Result:           cfg,
		},
	})
}

// keyPaths maps every flag name derived from cfg to its dotted koanf path.
func keyPaths(cfg interface{}) map[string]string {
	out := map[string]string{}
	var walk func(t reflect.Type, flag, key string)
	walk = func(t reflect.Type, flag, key string) {
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			tag := f.Tag.Get("koanf")
			if tag == "" || tag == "-" {
				continue
			}
			name, path := tag, tag
			if flag != "" {
				name = flag + "-" + tag
				path = key + "." + tag
			}
			if isSection(f.Type) {
				walk(f.Type, name, path)
				continue
			}
			out[name] = path
		}
	}
	walk(reflect.TypeOf(cfg), "", "")
	return out
}

// Validate checks the `validate` tags of the last loaded configuration.
func (cl *ConfigLoader) Validate() error {
	if cl.cfg == nil {
		return errors.New("configuration not loaded")
	}
	err := cl.validate.Struct(cl.cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate config")
	}
	var missing, invalid []string
	for _, fe := range verrs {
		parts := strings.Split(fe.Namespace(), ".")
		name := strings.Join(parts[1:], "-")
		if fe.Tag() == "required" {
			missing = append(missing, name)
		} else {
			invalid = append(invalid, name+" ("+fe.Tag()+")")
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("required configuration values not set: %s", strings.Join(missing, ", "))
	}
	return errors.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
}
