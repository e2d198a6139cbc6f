package assistant

import (
	"fmt"
	"strings"
)

// BuildPrompt assembles the grounding context and the user's message into a
// single-turn prompt. No conversation history is sent; every call stands
// alone.
func BuildPrompt(p Profile, message string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an AI assistant for %s's software engineering portfolio website.\n", p.Name)
	fmt.Fprintf(&b, "Use the following information to answer questions about %s from potential employers and developer collaborators.\n\n", p.Name)

	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Role: %s\n", p.Role)
	fmt.Fprintf(&b, "Location: %s\n", p.Location)
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(p.Skills, ", "))
	fmt.Fprintf(&b, "Interests: %s\n\n", strings.Join(p.Interests, ", "))

	b.WriteString("Projects:\n")
	for _, proj := range p.Projects {
		fmt.Fprintf(&b, "- %s: %s", proj.Name, proj.Description)
		if proj.Link != "" {
			fmt.Fprintf(&b, " (%s)", proj.Link)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nSite navigation: the portfolio lives at /portfolio, the blog at /blog, and the contact form at the bottom of the home page.\n\n")
	fmt.Fprintf(&b, "Only respond to questions about %s or these projects. If the question is unrelated, politely decline to answer.\n\n", p.Name)
	fmt.Fprintf(&b, "User: %s", message)

	return b.String()
}
