package config

import "fmt"

const (
	ENV_PREFIX       = "WEFT"
	ENV_PROVIDER     = "PROVIDER"
	ENV_MODEL        = "MODEL"
	ENV_EMBED_MODEL  = "EMBED_MODEL"
	ENV_EMBED_DIMS   = "EMBED_DIMS"
	ENV_INDEX_PATH   = "INDEX_PATH"
	ENV_TEMPLATE_DIR = "TEMPLATE_DIR"
	ENV_VERBOSE      = "VERBOSE"

	DEFAULT_EMBED_MODEL  = "text-embedding-3-small"
	DEFAULT_EMBED_DIMS   = 1536
	DEFAULT_INDEX_PATH   = "weft.db"
	DEFAULT_CHUNK_TOKENS = 256
)

func GetEnvWithPrefix(env string) string {
	return fmt.Sprintf("%s_%s", ENV_PREFIX, env)
}
