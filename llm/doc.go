// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package llm generates question sets and compares answer sets through an
OpenAI-compatible chat completions API.

# Client

Client is built once and injected into the Generator and Comparator:

	client := llm.NewClient(&http.Client{Timeout: 60 * time.Second}, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	gen := llm.NewGenerator(client, llm.MustLoadMoods())
	cmp := llm.NewComparator(client)

Anything implementing Completer can stand in for the client in tests.

# Moods

The mood catalog is embedded from moods.yaml and decoded strictly. Lookup
ignores case and spacing, so "Flirty / Romantic" resolves to
"Flirty/Romantic".

# Decoding

Replies are cut from the first '{' to the last '}' and decoded into typed
structs. A reply fails with ErrMalformedResponse when:

  - no JSON object is present, or a field has the wrong type
  - a required field is missing
  - a score is outside 0-100 or points are negative
  - the comparison count or order does not match the questions

Transport failures and non-2xx statuses return ErrUnavailable. Neither is
retried.
*/
package llm
