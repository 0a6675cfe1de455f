package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g.,
// --vector-store-target on both "lectern index" and "lectern search").
type Flag struct {
	// Name is the long flag name (e.g. "documents-dir").
	Name string

	// Shorthand is the one-letter short flag (e.g. "d"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "documents.dir").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag, AddUintFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagDocumentsDir    = "documents-dir"
	FlagAPIListen       = "api-listen"
	FlagAPITarget       = "api-target"
	FlagVectorStoreProv = "vector-store-provider"
	FlagVectorStoreTgt  = "vector-store-target"
	FlagCollection      = "collection"
	FlagEmbeddingProv   = "embedding-provider"
	FlagEmbeddingTgt    = "embedding-target"
	FlagEmbeddingModel  = "embedding-model"
	FlagEmbeddingDims   = "embedding-dimensions"
	FlagChatProv        = "chat-provider"
	FlagChatTgt         = "chat-target"
	FlagChatModel       = "chat-model"
	FlagTopK            = "top-k"
	FlagTopSources      = "top-sources"
	FlagChunkSize       = "chunk-size"
	FlagChunkOverlap    = "chunk-overlap"
)

// DefaultFlagSet returns the registry of all lectern flags.
func DefaultFlagSet() FlagSet {
	return FlagSet{
		FlagDocumentsDir: {
			Name: "documents-dir", ViperKey: "documents.dir",
			Description: "directory containing source documents to index",
		},
		FlagAPIListen: {
			Name: "listen", ViperKey: "api.listen",
			Description: "address for the API server to listen on",
		},
		FlagAPITarget: {
			Name: "api-target", ViperKey: "client.api_target",
			Description: "URL of the lectern API server",
		},
		FlagVectorStoreProv: {
			Name: "vector-store-provider", ViperKey: "vector_store.provider",
			Description: "vector store provider (chroma, sqlite, pgvector, memory)",
		},
		FlagVectorStoreTgt: {
			Name: "vector-store-target", ViperKey: "vector_store.target",
			Description: "vector store target (URL, connection string, or db path)",
		},
		FlagCollection: {
			Name: "collection", ViperKey: "vector_store.collection",
			Description: "name of the chunk collection",
		},
		FlagEmbeddingProv: {
			Name: "embedding-provider", ViperKey: "embedding.provider",
			Description: "embedding provider (ollama, openai)",
		},
		FlagEmbeddingTgt: {
			Name: "embedding-target", ViperKey: "embedding.target",
			Description: "embedding API URL",
		},
		FlagEmbeddingModel: {
			Name: "embedding-model", ViperKey: "embedding.model",
			Description: "embedding model name",
		},
		FlagEmbeddingDims: {
			Name: "embedding-dimensions", ViperKey: "embedding.dimensions",
			Description: "embedding vector dimensions",
		},
		FlagChatProv: {
			Name: "chat-provider", ViperKey: "chat.provider",
			Description: "chat completion provider (ollama, openai)",
		},
		FlagChatTgt: {
			Name: "chat-target", ViperKey: "chat.target",
			Description: "chat completion API URL",
		},
		FlagChatModel: {
			Name: "chat-model", ViperKey: "chat.model",
			Description: "chat completion model name",
		},
		FlagTopK: {
			Name: "top-k", Shorthand: "k", ViperKey: "retrieval.top_k",
			Description: "number of nearest chunks to retrieve",
		},
		FlagTopSources: {
			Name: "top-sources", ViperKey: "retrieval.top_sources",
			Description: "number of distinct source documents to keep",
		},
		FlagChunkSize: {
			Name: "chunk-size", ViperKey: "chunking.size",
			Description: "chunk window size in characters",
		},
		FlagChunkOverlap: {
			Name: "chunk-overlap", ViperKey: "chunking.overlap",
			Description: "overlap between consecutive chunks in characters",
		},
	}
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *int) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultInt returns the default int value for a viper key from NewDefaultConfig.
func defaultInt(viperKey string) int {
	v := viper.New()
	setViperDefaults(v)
	return v.GetInt(viperKey)
}

// defaultUint returns the default uint value for a viper key from NewDefaultConfig.
func defaultUint(viperKey string) uint {
	v := viper.New()
	setViperDefaults(v)
	return v.GetUint(viperKey)
}
