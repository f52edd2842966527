// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"fmt"
	"strings"
)

// System prompts, one per kind of request.
const (
	programmingSystemPrompt = `You are an AI Programming Assistant designed to help with Python programming tasks.

Guidelines for your responses:
- Provide clear, concise explanations suitable for beginners
- Include well-commented code examples
- Explain programming concepts without assuming prior knowledge
- Follow Python best practices in all code you provide
- When appropriate, suggest resources for further learning
- Format code blocks properly using markdown`

	codeReviewSystemPrompt = `You are an AI Programming Assistant specializing in Python code review.

Guidelines for your code reviews:
- First explain what the code does at a high level
- Identify potential bugs, edge cases, or inefficiencies
- Suggest improvements for readability and maintainability
- Provide an improved version with explanatory comments
- Highlight good practices that are already present in the code
- Use a constructive and educational tone throughout`

	codeGenerationSystemPrompt = `You are an AI Programming Assistant specializing in Python code generation.

Guidelines for generating code:
- Write clean, efficient, and well-commented Python code
- Follow PEP 8 style guidelines
- Include docstrings for functions and classes
- Provide comprehensive error handling
- Include example usage to demonstrate the code
- Explain your implementation choices
- Consider edge cases and potential issues`

	taskConversionSystemPrompt = `You are an AI Programming Assistant specializing in converting natural language task descriptions into working Python code for users with minimal programming knowledge.

Guidelines:
- Write extremely well-commented code with explanations of EVERY line
- Explain programming concepts in simple language assuming NO prior knowledge
- Structure code in small, manageable chunks with clear purpose
- Include simple error handling with explanations of what could go wrong
- Provide complete, ready-to-run code that accomplishes the task
- Add detailed instructions on how to run the code
- Include examples of how the user might modify the code for similar tasks
- Focus on practical solutions rather than programming theory
- Use simple variable names that clearly indicate their purpose`
)

// NoCodeReply answers an analysis request that carries no code.
const NoCodeReply = "I don't see any code to analyze. Please share your code."

func categoryPrompt(task string) string {
	var sb strings.Builder
	sb.WriteString("Identify which ONE category best matches this task description:\n\n")
	sb.WriteString(task)
	sb.WriteString("\n\nCategories:\n")
	for _, c := range taskCategories {
		fmt.Fprintf(&sb, "- %s: %s\n", c.key, c.label)
	}
	sb.WriteString("\nReturn ONLY the category name, nothing else.")
	return sb.String()
}

func conversionPrompt(task, category string) string {
	return fmt.Sprintf(`I need to convert this task description into working Python code.
I have very little programming knowledge, so the code should be well-explained.

TASK DESCRIPTION:
%s

IDENTIFIED CATEGORY:
%s

Please:
1. Explain what you'll create in simple terms
2. Provide the complete Python code with detailed comments explaining each part
3. Include step-by-step instructions on how to run the code
4. Add simple examples of how to use/modify the code for similar tasks`, task, category)
}

func reviewPrompt(code string, issues []string, complexity string) string {
	detected := "None detected"
	if len(issues) > 0 {
		detected = strings.Join(issues, ", ")
	}
	return fmt.Sprintf("Please analyze this Python code and provide feedback:\n\n"+
		"```python\n%s\n```\n\n"+
		"Initial analysis detected:\n"+
		"- Potential issues: %s\n"+
		"- Code complexity: %s\n\n"+
		"Please provide:\n"+
		"1. An explanation of what this code does\n"+
		"2. Suggestions for improvements (readability, efficiency, best practices)\n"+
		"3. Any potential bugs or edge cases\n"+
		"4. Improved version with explanatory comments", code, detected, complexity)
}

func generationPrompt(specification string) string {
	return fmt.Sprintf(`Please write Python code based on the following specification:

%s

The code should be:
1. Well-commented for a beginner to understand
2. Follow Python best practices
3. Include example usage
4. Be efficient and handle edge cases`, specification)
}

func explainPrompt(code string) string {
	return fmt.Sprintf("Please explain this code in simple terms for someone with minimal programming knowledge:\n\n"+
		"```python\n%s\n```\n\n"+
		"Break down:\n"+
		"1. What the code does overall\n"+
		"2. What each major section does\n"+
		"3. Any important programming concepts being used\n"+
		"4. How someone might modify it for their needs", code)
}

func simplifyPrompt(code string) string {
	return fmt.Sprintf("Please simplify this code and explain it for a beginner:\n\n"+
		"```python\n%s\n```\n\n"+
		"Please:\n"+
		"1. Create a simplified version that's easier to understand\n"+
		"2. Add detailed comments explaining what each line does\n"+
		"3. Explain any complex or advanced concepts in simple terms\n"+
		"4. Preserve the functionality while making the code more readable", code)
}
