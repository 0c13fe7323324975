//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package eval

import "strings"

// CheckAnswer reports whether a free-form prediction matches the ground-truth
// option. Both strings are lowercased and split into a leading option token
// ("b." in "B. the door opens") and the remaining content. The prediction
// matches when its option token (periods stripped) is a substring of the
// ground-truth option token, or when the ground-truth content (trailing
// period stripped) is a substring of the predicted content.
func CheckAnswer(predict, gtAnswer string) bool {
	predict = strings.ToLower(predict)
	gtAnswer = strings.ToLower(gtAnswer)

	predOption, predContent := splitOption(predict)
	gtOption, gtContent := splitOption(gtAnswer)
	gtContent = strings.TrimSuffix(gtContent, ".")

	predOption = strings.TrimSpace(strings.ReplaceAll(predOption, ".", ""))
	if predOption != "" && strings.Contains(gtOption, predOption) {
		return true
	}
	gtContent = strings.TrimSpace(gtContent)
	if gtContent != "" && strings.Contains(predContent, gtContent) {
		return true
	}
	return false
}

// splitOption separates the leading whitespace-delimited token from the rest.
func splitOption(s string) (option, content string) {
	parts := strings.SplitN(s, " ", 2)
	option = parts[0]
	if len(parts) > 1 {
		content = parts[1]
	}
	return option, content
}
