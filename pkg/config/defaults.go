package config

const (
	defaultAPIListen       = ":8081"
	defaultClientAPITarget = "http://localhost:8081"

	defaultVectorProvider   = "sqlite"
	defaultVectorCollection = "lectern"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultChatProvider = "ollama"
	defaultChatTarget   = "http://localhost:11434"
	defaultChatModel    = "llama3.2"

	defaultRetrievalTopK       = 12
	defaultRetrievalTopSources = 3

	defaultChunkSize    = 1200
	defaultChunkOverlap = 200
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Collection: defaultVectorCollection,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Chat: ChatConfig{
			Provider: defaultChatProvider,
			Target:   defaultChatTarget,
			Model:    defaultChatModel,
		},
		Retrieval: RetrievalConfig{
			TopK:       defaultRetrievalTopK,
			TopSources: defaultRetrievalTopSources,
		},
		Chunking: ChunkingConfig{
			Size:    defaultChunkSize,
			Overlap: defaultChunkOverlap,
		},
	}
}
