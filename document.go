package mustwebui

// stateElementID is the fixed id of the <script type="application/json">
// element carrying the serialized initial state.
const stateElementID = "__mustwebui_state"

// renderDocument wraps a rendered page fragment and the safely serialized
// initial state into a complete HTML document. The body bootstraps the client
// runtime through x-data: __mustwebui_init reads the state element by its
// fixed id, parses it and returns the value. The initializer has no other
// side effects, so invoking it repeatedly is harmless.
func renderDocument(fragment, stateJSON string) string {
	stateScript := `<script type="application/json" id="` + stateElementID + `">` +
		stateJSON + `</script>`
	bootScript := `<script>function __mustwebui_init(){const el=` +
		`document.getElementById('` + stateElementID + `');` +
		`return JSON.parse(el.textContent);}</script>`
	return `<!DOCTYPE html>` +
		`<html><head><meta charset="utf-8"></head>` +
		`<body x-data="__mustwebui_init()">` +
		stateScript + bootScript + fragment +
		`</body></html>`
}
