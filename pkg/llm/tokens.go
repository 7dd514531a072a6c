package llm

// EstimateTokens gives a rough token count for prose, around four characters
// per token. Use it for chunking and budget checks, not billing.
func EstimateTokens(text string) int {
	avgCharsPerToken := 4.0
	tokens := int(float64(len([]rune(text))) / avgCharsPerToken)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// EstimateMessageTokens sums the token estimate of each message plus a small
// per-message overhead for role framing.
func EstimateMessageTokens(contents ...string) int {
	const perMessageOverhead = 4
	total := 0
	for _, c := range contents {
		total += EstimateTokens(c) + perMessageOverhead
	}
	return total
}
