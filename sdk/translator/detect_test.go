package translator

import "testing"

func TestDetectRequestFormat(t *testing.T) {
	cases := []struct {
		payload string
		want    Format
	}{
		{`{"contents":[{"role":"user","parts":[{"text":"hi"}]}]}`, FormatGemini},
		{`{"prompt":"x"}`, FormatOllama},
		{`{"messages":[{"content":[{"type":"text","text":"hi"}]}]}`, FormatClaude},
		{`{"messages":[{"role":"user","content":"hi"}]}`, FormatOpenAI},
		{`{"prompt":"x","messages":[]}`, FormatOpenAI},
		{`{"messages":[{"content":["plain"]}]}`, FormatOpenAI},
		{`[]`, FormatOpenAI},
		{`not json`, FormatOpenAI},
	}
	for _, tc := range cases {
		if got := DetectRequestFormat([]byte(tc.payload)); got != tc.want {
			t.Errorf("DetectRequestFormat(%s) = %s, want %s", tc.payload, got, tc.want)
		}
	}
}

func TestDetectResponseFormat(t *testing.T) {
	cases := []struct {
		payload string
		want    Format
	}{
		{`{"type":"message","content":[]}`, FormatClaude},
		{`{"content":[{"type":"text","text":"x"}]}`, FormatClaude},
		{`{"candidates":[]}`, FormatGemini},
		{`{"model":"llama3","response":"x","done":true}`, FormatOllama},
		{`{"choices":[],"response":"x"}`, FormatOpenAI},
		{`{"choices":[{"message":{"content":"x"}}]}`, FormatOpenAI},
	}
	for _, tc := range cases {
		if got := DetectResponseFormat([]byte(tc.payload)); got != tc.want {
			t.Errorf("DetectResponseFormat(%s) = %s, want %s", tc.payload, got, tc.want)
		}
	}
}
