package analysis

// profileSchema is the JSON Schema the model's resume extraction must
// conform to before it is accepted. Anything that fails validation is
// treated the same as a provider failure and degrades to the fallback
// profile.
const profileSchema = `{
	"type": "object",
	"required": ["personal_info", "skills"],
	"properties": {
		"personal_info": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"email": {"type": "string"},
				"phone": {"type": "string"},
				"location": {"type": "string"}
			}
		},
		"projects": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["project_name"],
				"properties": {
					"project_name": {"type": "string"},
					"description": {"type": "string"},
					"technologies": {"type": "array", "items": {"type": "string"}},
					"role": {"type": "string"},
					"responsibilities": {"type": "array", "items": {"type": "string"}},
					"challenges": {"type": "array", "items": {"type": "string"}},
					"achievements": {"type": "array", "items": {"type": "string"}}
				}
			}
		},
		"experience": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["company"],
				"properties": {
					"company": {"type": "string"},
					"position": {"type": "string"},
					"duration": {"type": "string"},
					"responsibilities": {"type": "array", "items": {"type": "string"}},
					"achievements": {"type": "array", "items": {"type": "string"}}
				}
			}
		},
		"skills": {
			"type": "object",
			"properties": {
				"technical": {
					"type": "object",
					"properties": {
						"languages": {"type": "array", "items": {"type": "string"}},
						"frameworks": {"type": "array", "items": {"type": "string"}},
						"tools": {"type": "array", "items": {"type": "string"}},
						"databases": {"type": "array", "items": {"type": "string"}},
						"cloud": {"type": "array", "items": {"type": "string"}},
						"other": {"type": "array", "items": {"type": "string"}}
					}
				},
				"soft": {"type": "array", "items": {"type": "string"}}
			}
		},
		"education": {"type": "array"},
		"certifications": {"type": "array", "items": {"type": "string"}},
		"overall": {"type": "string"},
		"key_highlights": {"type": "array", "items": {"type": "string"}},
		"interview_topics": {"type": "array", "items": {"type": "string"}}
	}
}`
