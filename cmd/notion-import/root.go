/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/notion-import/notion"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "~/.config/notion-import.yaml"

var (
	// Store the result of binding cobra flags
	Config       string
	ConfigActual string
	Debug        bool

	// Command to run to retrieve the Notion integration token
	AuthTokenCmd []string

	NotionURL         string
	RequestsPerSecond float64
	RequestTimeout    time.Duration

	ParsedConfig YamlConfig

	Logger *log.Logger
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "notion-import",
	Short: "Import a tree of Markdown files into Notion",
	Long: `
Got a wiki export, a docs site or a folder of notes in Markdown?  This tool recreates it as a tree
of Notion pages under a page of your choosing: directories become folder pages, files become
documents, and tables become inline databases.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("notion-import: failed to initialise config: %w", err)
		}
		Logger = newLogger(Debug)
		Logger.Debug("config loaded", "path", ConfigActual)
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: "+defaultConfigPath+", respects NOTION_IMPORT_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringSliceVar(&AuthTokenCmd, "auth-token-cmd", []string{}, "shell command to retrieve the Notion integration token (default: $NOTION_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&NotionURL, "notion-url", notion.DefaultBaseURI, "Notion REST API base URL")
	rootCmd.PersistentFlags().Float64Var(&RequestsPerSecond, "requests-per-second", 3, "client side limit on Notion API requests, 0 for none")
	rootCmd.PersistentFlags().DurationVar(&RequestTimeout, "request-timeout", 30*time.Second, "timeout for each Notion API request")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := true
	if Config == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv("NOTION_IMPORT_CONFIG")
		if envConfig != "" {
			Config = envConfig
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = defaultConfigPath
			explicit = false
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("notion-import: unable to expand homedir: %w", err)
	}
	ConfigActual = config

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		if !explicit {
			// flags alone are fine
			return nil
		}
		fmt.Fprintf(os.Stderr, "Couldn't read config file %s, does it exist?  Override with --config.\n", ConfigActual)
		return fmt.Errorf("notion-import: specified config file does not exist: %w", err)
	}

	yamlFile, err := os.ReadFile(ConfigActual)
	if err != nil {
		return fmt.Errorf("notion-import: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("notion-import: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("notion-import: failed to bind flags: %w", err)
	}

	return nil
}

// YamlConfig mirrors the command line flags.  Numbers and durations are strings so that they go
// through the same parsing as on the command line.
type YamlConfig struct {
	Debug       *bool `yaml:"debug"`
	WithVCR     *bool `yaml:"with-vcr"`
	StrictImage *bool `yaml:"strict-images"`
	S3Insecure  *bool `yaml:"s3-insecure"`

	AuthTokenCmd      []string `yaml:"auth-token-cmd"`
	NotionURL         string   `yaml:"notion-url"`
	RequestsPerSecond string   `yaml:"requests-per-second"`
	RequestTimeout    string   `yaml:"request-timeout"`

	BasePath    string   `yaml:"base-path"`
	Glob        string   `yaml:"glob"`
	BasePage    string   `yaml:"base-page"`
	BasePageID  string   `yaml:"base-page-id"`
	Plugins     []string `yaml:"plugins"`
	RowOrder    string   `yaml:"row-order"`
	FolderCache string   `yaml:"folder-cache"`
	ErrorReport string   `yaml:"error-report"`

	ImagesPath       string `yaml:"images-path"`
	AzureBlobURL     string `yaml:"azure-blob-url"`
	AzureBlobAccount string `yaml:"azure-blob-account"`
	S3Endpoint       string `yaml:"s3-endpoint"`
	S3Bucket         string `yaml:"s3-bucket"`
	S3AccessKey      string `yaml:"s3-access-key"`
	S3SecretKey      string `yaml:"s3-secret-key"`
	S3PublicURL      string `yaml:"s3-public-url"`
	DevOpsUserCache  string `yaml:"devops-user-cache"`
}

// Bind each cobra flag to its value from the config file, unless it was given on the command line.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("notion-import: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// the flag is unknown.  but that can legitimately happen if you're running
			// e.g. `list users` which has no `glob` flag but your YAML file does define it.
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		switch field.Kind() {
		case reflect.Ptr:
			// YamlConfig only uses pointers for bools
			b, ok := field.Value().(*bool)
			if !ok {
				return fmt.Errorf("notion-import: found unrecognised field: %+v", field.Name())
			}
			if b != nil {
				if err := cmd.Flags().Set(key, fmt.Sprintf("%v", *b)); err != nil {
					return fmt.Errorf("notion-import: bad value for %s in config: %w", key, err)
				}
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("notion-import: found unrecognised field: %+v", field.Name())
			}
			if s != "" {
				if err := cmd.Flags().Set(key, s); err != nil {
					return fmt.Errorf("notion-import: bad value for %s in config: %w", key, err)
				}
			}

		case reflect.Slice:
			ss, ok := field.Value().([]string)
			if !ok {
				return fmt.Errorf("notion-import: found unrecognised field: %+v", field.Name())
			}
			for _, s := range ss {
				// yes, repeatedly calling Set() appends to the slice...
				if err := cmd.Flags().Set(key, s); err != nil {
					return fmt.Errorf("notion-import: bad value for %s in config: %w", key, err)
				}
			}

		default:
			return fmt.Errorf("notion-import: found unrecognised field: %+v", field.Name())
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Flags are only available after (or inside, presumably) the .Execute() thing.
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("notion-import: execution error: %w", err)
	}

	return nil
}
