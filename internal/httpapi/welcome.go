package httpapi

import (
	"net/http"
)

// UsageHint is returned in place of an inference result when no prompt is supplied.
const UsageHint = `To initiate a chat, add "/chat?prompt=my prompt" or "/chat/my prompt"`

const welcomeHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>llmchat</title></head>
<body>
<h1 style="text-align: center;">Welcome to llmchat</h1>
<p style="text-align: center;"><strong>Suggestion</strong>: To initiate a chat, add the following path to the url:
<br>1. <code>/chat?prompt=your prompt</code>
<br>2. <code>/chat/your prompt</code></p>
</body>
</html>
`

func handleWelcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(welcomeHTML))
}
