package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/patrickward/lettercheck/internal/config"
	"github.com/patrickward/lettercheck/internal/drafts"
)

const (
	appName    = "lettercheck"
	appVersion = "0.1.0"
)

// cliFlags holds the command-line values. Only flags the user actually set
// override the config file and environment.
type cliFlags struct {
	set map[string]bool

	configPath     string
	dataDir        string
	port           int
	addr           string
	apiURL         string
	token          string
	keysDir        string
	identitiesFile string
	recipientsFile string
	generateKeys   bool
	showVersion    bool
}

func (f *cliFlags) isSet(names ...string) bool {
	for _, name := range names {
		if f.set[name] {
			return true
		}
	}
	return false
}

// lookup layers the flags that were set over env, answering for the
// LETTERCHECK_* variables the config package reads. Passing it to config.Load
// gives flags precedence over the environment and the config file.
func (f *cliFlags) lookup(env config.LookupFunc) config.LookupFunc {
	values := make(map[string]string)
	override := func(key, value string, names ...string) {
		if f.isSet(names...) {
			values[config.EnvPrefix+key] = value
		}
	}

	override("DATA_DIR", f.dataDir, "data", "d")
	override("PORT", strconv.Itoa(f.port), "port", "p")
	override("ADDR", f.addr, "addr", "a")
	override("API_URL", f.apiURL, "api-url", "u")
	override("API_TOKEN", f.token, "token", "t")
	override("KEYS_DIR", f.keysDir, "keys-dir", "k")
	override("IDENTITIES_FILE", f.identitiesFile, "identity", "i")
	override("RECIPIENTS_FILE", f.recipientsFile, "recipient", "r")

	return func(key string) (string, bool) {
		if v, ok := values[key]; ok {
			return v, true
		}
		if env == nil {
			return "", false
		}
		return env(key)
	}
}

func parseFlags(args []string) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}

	// Each alias pair shares one variable, so -p and -port set the same value.
	flagSet := flag.NewFlagSet(appName, flag.ContinueOnError)
	flagSet.StringVar(&f.configPath, "config", "", "Path to a TOML config file.")
	flagSet.StringVar(&f.configPath, "c", "", "Path to a TOML config file.")
	flagSet.StringVar(&f.dataDir, "data", "", "Directory to store drafts and logs.")
	flagSet.StringVar(&f.dataDir, "d", "", "Directory to store drafts and logs.")
	flagSet.StringVar(&f.keysDir, "keys-dir", "", "Directory for key operations (generation, etc.)")
	flagSet.StringVar(&f.keysDir, "k", "", "Directory for key operations (generation, etc.)")
	flagSet.StringVar(&f.identitiesFile, "identity", "", "Use the identity file at the specified path for decryption.")
	flagSet.StringVar(&f.identitiesFile, "i", "", "Use the identity file at the specified path for decryption.")
	flagSet.StringVar(&f.recipientsFile, "recipient", "", "Use the recipient file at the specified path for encryption.")
	flagSet.StringVar(&f.recipientsFile, "r", "", "Use the recipient file at the specified path for encryption.")
	flagSet.BoolVar(&f.generateKeys, "generate-keys", false, "Generate a new key pair and save it to keys-dir.")
	flagSet.BoolVar(&f.generateKeys, "g", false, "Generate a new key pair and save it to keys-dir.")

	flagSet.IntVar(&f.port, "port", 8080, "Port to run the server on.")
	flagSet.IntVar(&f.port, "p", 8080, "Port to run the server on.")
	flagSet.StringVar(&f.addr, "addr", "localhost", "Address to bind the server to.")
	flagSet.StringVar(&f.addr, "a", "localhost", "Address to bind the server to.")
	flagSet.StringVar(&f.apiURL, "api-url", "", "Base URL of the spellcheck API.")
	flagSet.StringVar(&f.apiURL, "u", "", "Base URL of the spellcheck API.")
	flagSet.StringVar(&f.token, "token", "", "Bearer token sent to the spellcheck API.")
	flagSet.StringVar(&f.token, "t", "", "Bearer token sent to the spellcheck API.")

	flagSet.BoolVar(&f.showVersion, "version", false, "Show application version.")
	flagSet.BoolVar(&f.showVersion, "v", false, "Show application version.")

	flagSet.Usage = func() {
		_, _ = fmt.Fprintf(flagSet.Output(), "lettercheck - spellchecking editor for letter bodies\n\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "Examples:\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "  # Check letters against a local API:\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "  %s -api-url http://localhost:8000 -token $TOKEN\n\n", appName)
		_, _ = fmt.Fprintf(flagSet.Output(), "  # Generate keys for encrypted drafts:\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "  %s -generate-keys -keys-dir ~/.lettercheck/keys\n\n", appName)
		_, _ = fmt.Fprintf(flagSet.Output(), "Options:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}

	flagSet.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})

	if !f.isSet("config", "c") {
		f.configPath = os.Getenv(config.EnvPrefix + "CONFIG")
	}

	return f, nil
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	if flags.showVersion {
		fmt.Printf("lettercheck version %s\n", appVersion)
		return
	}

	lookup := flags.lookup(os.LookupEnv)
	cfg, err := config.Load(flags.configPath, lookup)
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	if flags.generateKeys {
		kp, err := drafts.GenerateKeyPair(cfg.Keys.Dir)
		if err != nil {
			log.Fatal(fmt.Errorf("error generating new encryption identity: %w", err))
		}

		fmt.Printf("Generated new encryption identity:\n")
		fmt.Printf("  Public key: %s\n", kp.PublicKey)
		fmt.Printf("  Public key file: %s\n", kp.PublicPath)
		fmt.Printf("  Private key file: %s\n", kp.PrivatePath)
		fmt.Printf("\nTo use these keys:\n")
		fmt.Printf("  %s -identity %s -recipient %s\n", appName, kp.PrivatePath, kp.PublicPath)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal(fmt.Errorf("invalid configuration: %w", err))
	}

	logger, err := SetupLogging(DefaultLogConfig(cfg.LogFile))
	if err != nil {
		log.Fatal(fmt.Errorf("error setting up logging: %w", err))
	}
	defer func() {
		_ = logger.Close()
	}()

	sealer := drafts.NewSealer()
	identitiesFile, recipientsFile := cfg.Keys.IdentitiesFile, cfg.Keys.RecipientsFile
	if identitiesFile == "" || recipientsFile == "" {
		identitiesFile, recipientsFile = cfg.DefaultKeys()
	}

	if identitiesFile == "" {
		log.Printf("No encryption keys found in %s, drafts are stored unencrypted", cfg.Keys.Dir)
	} else if err := sealer.LoadKeys(identitiesFile, recipientsFile); err != nil {
		log.Printf("Error loading encryption keys: %v", err)
		log.Printf("Encryption disabled!")
		sealer = drafts.NewSealer()
	} else {
		log.Printf("Encryption enabled!")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []ServerOption{WithSealer(sealer)}
	if flags.configPath != "" {
		opts = append(opts, WithConfigWatch(flags.configPath, lookup))
	}

	server, err := NewServer(ctx, cfg, opts...)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing server: %w", err))
	}

	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
