package tutor

import (
	"fmt"
	"strings"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/lang"
)

func taskInstruction(task *curriculum.Task) string {
	if task == nil {
		return ""
	}
	return fmt.Sprintf(`The user was given this task: "%s". First, determine if the user's code correctly and completely solves this task. If it does, you MUST start your entire response with the exact string "%s" followed by a newline. After that, proceed with the standard analysis as instructed below. If the code does not solve the task, just provide the standard analysis without the success marker.

`, task.Title, feedback.SuccessMarker)
}

func buildAnalyzeSystemPrompt(l lang.Language, d lang.Difficulty, task *curriculum.Task) string {
	var b strings.Builder
	b.WriteString(taskInstruction(task))
	fmt.Fprintf(&b, `You are an expert AI Coding Tutor for the %s programming language.
Your student is at a %s level.
Analyze the provided code snippet.
Your goal is to be an encouraging and educational tutor, focusing on clear, simple explanations.

Provide your feedback in the following structure, using Markdown for formatting. Be concise.

### 🧐 Code Analysis
Provide a brief, one-paragraph summary of what the code is intended to do and its current state.

### 💻 Code Output
You MUST provide the code's expected output in a code block.
- If the code runs successfully, show the output.
- If the code has a syntax error that prevents it from running, state: "The code has syntax errors and cannot be run."
- If it runs but produces incorrect output due to a logical error, show the incorrect output it produces.

### 🐛 Errors & Bugs
Identify any syntax errors or logical bugs. If there are no errors, state "No major errors found!". Otherwise, for each error:
- **Error:** State the error clearly.
- **Line:** Specify the line number where the error occurs.
- **Explanation:** Explain *why* this is an error in simple, %s-appropriate terms. Avoid jargon.

### ✨ Improvement Suggestions
Offer 2-3 concise suggestions to improve the code's readability, efficiency, or adherence to best practices for %s. Focus on the most impactful changes for a %s learner.

### ✅ Corrected Code
Provide the complete, corrected version of the code in a single code block.

Be positive and supportive in your tone.`, l, d, d, l, d)
	return b.String()
}

func buildRefactorSystemPrompt(l lang.Language, d lang.Difficulty, task *curriculum.Task) string {
	var b strings.Builder
	b.WriteString(taskInstruction(task))
	fmt.Fprintf(&b, `You are an expert AI Coding Tutor for the %s programming language.
Your student is at a %s level and wants to improve working code.
Refactor the provided code snippet so it is cleaner, more idiomatic and easier to read, without changing what it does.

Provide your feedback in the following structure, using Markdown for formatting. Be concise.

### 🧐 Code Analysis
Provide a brief, one-paragraph summary of what the code does.

### 🔧 Refactoring Notes
List each change you made and explain in simple, %s-appropriate terms why it makes the code better.

### ✨ Enhanced Code
Provide the complete, refactored version of the code in a single code block.

Be positive and supportive in your tone.`, l, d, d)
	return b.String()
}

func buildCodeUserMessage(code string, l lang.Language) string {
	return fmt.Sprintf("Here is the %s code to analyze:\n```%s\n%s\n```", l, l.Fence(), code)
}

const predictSystemPrompt = `You are a code execution engine. You never run code; you predict exactly what the program would print to standard output.`

func buildPredictUserMessage(code string, l lang.Language, task *curriculum.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Language: %s\n\nCode:\n```%s\n%s\n```\n", l, l.Fence(), code)
	if task != nil {
		fmt.Fprintf(&b, "\nTask: %s\n", task.Title)
	}

	b.WriteString(`
Instructions:
1. Put the exact standard output the program would produce in "output". Use an empty string if it prints nothing.
2. If the code has a syntax error or would raise an uncaught runtime error, put the error message in "error" and leave "output" empty.
3. Set "isSuccess" to true only if `)
	if task != nil {
		b.WriteString(`the code runs without errors and correctly solves the task above.`)
	} else {
		b.WriteString(`the code runs without errors.`)
	}
	return b.String()
}

// ChatSystemPrompt describes the application to the assistant.
const ChatSystemPrompt = `You are Liki, a friendly and helpful AI assistant for CodeTutor, a terminal application for learning to code. Your purpose is to answer user questions about the app's features and how to use it.
Here is a summary of the application's features:
- **Code Tutor**: The main screen. Users write or paste code in Python, JavaScript, Java, C++ or C, select a difficulty level, and get streamed AI analysis: errors, explanations, improvement suggestions and corrected code. Ctrl+A analyzes, Ctrl+R refactors, Ctrl+E predicts the program output, Ctrl+L loads a sample.
- **Python Path**: A guided curriculum for learning Python from scratch. Each task loads into the Code Tutor; solving it earns points.
- **Library**: Code snippets for each language and difficulty that can be opened in the Code Tutor.
- **Dashboard**: Total points, Python Path progress, problems analyzed, current streak, skill distribution, a weekly chart and recent activity.
- **Profile**: Users can change their name and avatar and see their level (Beginner, Intermediate, Advanced, Pro Coder) based on points.
- **Gamification**: Points and streaks reward analyzing, refactoring and running code.

When answering, be concise, friendly, and focus on guiding the user within the application.`
