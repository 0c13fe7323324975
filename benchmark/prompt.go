//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package benchmark

import "strings"

// promptTemplate is the multiple-choice instruction given to the model.
// {question} and {options} are substituted; options are joined by newlines.
const promptTemplate = "Question: {question}\nOptions: {options}\nAnswer with the option’s letter from the given choices directly."

// Prompt renders the full question prompt for a sample.
func Prompt(question string, options []string) string {
	prompt := strings.ReplaceAll(promptTemplate, "{question}", question)
	prompt = strings.ReplaceAll(prompt, "{options}", strings.Join(options, "\n"))
	return strings.TrimRight(prompt, " \t\n")
}

// PromptForSample renders the prompt for s.
func PromptForSample(s Sample) string {
	return Prompt(s.Question, s.Options)
}
