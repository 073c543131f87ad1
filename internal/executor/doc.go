/*
Package executor sends the three backend requests and turns every outcome
into a request lifecycle value.

# Endpoints

	POST /remoteSigner/gpg/generateKey   text/plain armored key
	POST /keyRing/addPrivateKey          JSON {"FingerPrint","PublicKey"}
	POST /remoteSigner/gpg/unlockKey     text/plain status message

Paths are joined to the active profile's base URL. Bodies are JSON.

# Error Handling

Nothing is returned as a Go error once a Client exists. Each failure is
classified at the request boundary into a *types.RequestError and stored as
remotedata.Failure:

  - BadURL: base URL without scheme or host, or rejected by the transport
  - Timeout: the profile timeout elapsed (default 30s)
  - NetworkError: any other transport failure
  - BadStatus: a response outside 2xx
  - BadBody: text that is not UTF-8, or JSON missing a required field

There are no retries. A request cannot be cancelled once sent.

# Logging

One logfmt line per request with endpoint, request id (also sent as
X-Request-ID), status, duration and error kind. Passphrases and key material
are never logged.
*/
package executor
