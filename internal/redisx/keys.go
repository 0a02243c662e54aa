package redisx

const (
	// Revoked token marker: auth:revoked:{jti} -> "1", expires with the token.
	KeyRevokedToken = "auth:revoked:%s"

	// Per-principal auth event channel: auth:events:{principal_id}
	ChannelAuthEvents = "auth:events:%s"
)
