/*
Package types defines the data structures shared by gpgdesk packages.

# Key records

KeyCreationParams:
  - Pending input for a "generate key" request
  - Identity, passphrase, key size (default 4096 bits)

PrivateKeyRecord:
  - Armored key lifecycle (typed in or produced by a generate request)
  - Passphrase and persist-to-disk flag

ValidPrivateKeyRecord:
  - Submission-time projection of a PrivateKeyRecord
  - Only built from a record whose armored key has resolved

UnlockRequest:
  - Fingerprint, passphrase and unlock status lifecycle

PublicKeyResult:
  - Key-ring answer to a successful submission

# Wire payloads

GenerateKeyRequest, AddPrivateKeyRequest and UnlockKeyRequest are the JSON
bodies posted to the signer and key-ring endpoints. Field names match the
server's capitalised JSON keys.

# Errors

RequestError carries one of five failure kinds (network, timeout, bad URL,
bad status, bad body). It is the reason stored in a failed lifecycle.

# History

HistoryEntry is one row of the local request log. It never holds
passphrases or key material.
*/
package types
