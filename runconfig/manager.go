package runconfig

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/productscience/monorange/logging"
	"github.com/productscience/monorange/runconfig/schema"
)

type ConfigManager struct {
	currentConfig Config
	document      *Document
	warnings      []schema.Warning

	// Source names the provider's content in errors and logs.
	Source         string
	KoanProvider   koanf.Provider
	WriterProvider WriteCloserProvider
	// Registry defaults to schema.Default().
	Registry *schema.Registry
	Options  []Option
	mutex    sync.Mutex
}

type WriteCloser interface {
	Write([]byte) (int, error)
	Close() error
}

type WriteCloserProvider interface {
	GetWriter() (WriteCloser, error)
}

func LoadDefaultConfigManager(opts ...Option) (*ConfigManager, error) {
	path := GetConfigPath()
	manager := ConfigManager{
		Source:         path,
		KoanProvider:   file.Provider(path),
		WriterProvider: NewFileWriteCloserProvider(path),
		Options:        opts,
	}
	if err := manager.Load(); err != nil {
		return nil, err
	}
	return &manager, nil
}

func GetConfigPath() string {
	configPath := os.Getenv(ConfigPathEnv)
	if configPath == "" {
		configPath = "config.yaml" // Default value if the environment variable is not set
	}
	return configPath
}

// Load reads the provider, resolves aliases and validates. The previous state is kept
// when any step fails.
func (cm *ConfigManager) Load() error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if cm.Registry == nil {
		cm.Registry = schema.Default()
	}
	source := cm.Source
	if source == "" {
		source = "<config>"
	}

	data, err := cm.KoanProvider.ReadBytes()
	if err != nil {
		return &PathError{Path: source, Err: err}
	}
	doc, err := load(source, data, newOptions(cm.Options))
	if err != nil {
		return err
	}
	if err := ResolveAliases(doc, cm.Registry); err != nil {
		return err
	}
	validated, err := Validate(doc, cm.Registry)
	if err != nil {
		return err
	}

	cm.currentConfig = validated.Config
	cm.document = doc
	cm.warnings = validated.Warnings
	return nil
}

func (cm *ConfigManager) GetConfig() *Config {
	return &cm.currentConfig
}

func (cm *ConfigManager) Document() *Document {
	return cm.document
}

func (cm *ConfigManager) Warnings() []schema.Warning {
	return append([]schema.Warning(nil), cm.warnings...)
}

func (cm *ConfigManager) Write() error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if cm.WriterProvider == nil {
		return fmt.Errorf("config manager has no writer")
	}
	writer, err := cm.WriterProvider.GetWriter()
	if err != nil {
		return err
	}
	defer writer.Close()
	reg := cm.Registry
	if reg == nil {
		reg = schema.Default()
	}
	return writeConfig(cm.currentConfig, cm.document, reg, writer)
}

type FileWriteCloserProvider struct {
	path string
}

func NewFileWriteCloserProvider(path string) *FileWriteCloserProvider {
	return &FileWriteCloserProvider{path: path}
}

func (f *FileWriteCloserProvider) GetWriter() (WriteCloser, error) {
	file, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, &PathError{Path: f.path, Err: err}
	}
	return file, nil
}

// WriteConfig serializes a typed config as YAML. Extra loss coefficients are written
// back into model, and every registry link is written as an alias of its source.
func WriteConfig(config Config, writer io.Writer) error {
	return writeConfig(config, nil, schema.Default(), writer)
}

// writeConfig also keeps the keys of doc the typed config has no field for, and reuses
// the anchor names doc was written with.
func writeConfig(config Config, doc *Document, reg *schema.Registry, writer io.Writer) error {
	k := koanf.New(".")
	parser := yaml.Parser()
	err := k.Load(structs.Provider(config, "koanf"), nil)
	if err != nil {
		logging.Error("error loading config", logging.Loader, "error", err)
		return err
	}
	for name, coef := range config.Model.ExtraLossCoefs {
		if err := k.Set("model."+name, coef); err != nil {
			return err
		}
	}
	var anchors map[string]string
	if doc != nil {
		for _, p := range doc.Keys() {
			if k.Exists(p) {
				continue
			}
			value, _ := doc.Get(p)
			if err := k.Set(p, value); err != nil {
				return err
			}
			logging.Debug("Keeping key without a config field", logging.Loader, "key", p)
		}
		anchors = doc.Anchors()
	}

	output, err := k.Marshal(parser)
	if err != nil {
		logging.Error("error marshalling config", logging.Loader, "error", err)
		return err
	}
	output, err = linkAliases(output, reg.Links(), anchors)
	if err != nil {
		logging.Error("error writing aliases", logging.Loader, "error", err)
		return err
	}
	_, err = writer.Write(output)
	if err != nil {
		logging.Error("error writing config", logging.Loader, "error", err)
		return err
	}
	return nil
}
