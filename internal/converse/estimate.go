package converse

// EstimateTokens approximates a token count from a character count at four
// characters per token. The result is never below one.
func EstimateTokens(chars int) int {
	return max(1, chars/4)
}
