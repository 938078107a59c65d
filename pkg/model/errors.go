package model

import "github.com/m-mizutani/goerr/v2"

// MissingProjectMessage is the fixed text for a missing Gemini credential.
// Indexing and answering must report the identical string.
const MissingProjectMessage = "Missing Google Cloud project for Gemini. Set GOOGLE_CLOUD_PROJECT and restart."

// Error kinds shared across the ingestion and answering paths. Callers
// distinguish them with errors.Is; goerr.Wrap keeps the original cause
// attached for logging.
var (
	// ErrInvalidInput is returned for malformed URLs or video identifiers.
	ErrInvalidInput = goerr.New("invalid input")

	// ErrNoCredential is returned when a required API credential is not
	// configured. The message is the same whether indexing or answering.
	ErrNoCredential = goerr.New("missing required credential")

	// ErrUpstream wraps transcription, embedding, or generation failures.
	ErrUpstream = goerr.New("upstream service failure")

	// ErrEmptyTranscript is returned when transcription succeeds but yields
	// no usable text segments.
	ErrEmptyTranscript = goerr.New("transcription returned no usable segments")
)
