// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides invoker keys and random ID generation.

# Invoker Keys

Only known clients may start simulations on a shared deployment. A client
presents its id and a key derived from it with HMAC-SHA256:

	key := auth.GenerateInvokerKey(clientID, salt)
	err := auth.ValidateInvokerKey(clientID, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same client ID and salt always produce the same key, so keys are issued
(votekit-sim keygen) without storing anything server side. Rotating the salt
revokes every key at once.

Comparison uses hmac.Equal to avoid timing leaks.

# ID Generation

Random hex IDs, used for client ids when none is given:

	id, err := auth.GenerateID(8)  // 16 hex characters
*/
package auth
