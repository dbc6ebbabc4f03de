// Package config loads the file configuration of a simulated or replayed
// AVDECC entity.
//
// Files are YAML (.yaml, .yml) or TOML (.toml). After decoding, AVDECC_*
// environment variables override individual fields:
//
//	AVDECC_ENTITY_ID      entity id, e.g. 00:1b:92:ff:fe:00:00:01
//	AVDECC_MAC            port MAC address
//	AVDECC_LOG_LEVEL      debug, info, warn or error
//	AVDECC_PROTOCOL_LOG   path of the CBOR protocol log
//
// LoadEnvFile seeds the environment from a .env file first.
package config
