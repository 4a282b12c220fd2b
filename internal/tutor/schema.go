package tutor

import "github.com/codetutor/codetutor/internal/llm"

// PredictionSchema defines the JSON schema for predicted program runs.
var PredictionSchema = &llm.Schema{
	Name:        "execution-prediction",
	Description: "The predicted result of running a program",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"output": map[string]any{
				"type":        "string",
				"description": "Exact standard output of the program",
			},
			"error": map[string]any{
				"type":        "string",
				"description": "Error message if the program fails to compile or run, otherwise empty",
			},
			"isSuccess": map[string]any{
				"type":        "boolean",
				"description": "Whether the program runs cleanly and solves the task, if one is given",
			},
		},
		"required":             []any{"output", "error", "isSuccess"},
		"additionalProperties": false,
	},
}
