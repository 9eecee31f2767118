package executors

import "github.com/promptflow/promptflow/pkg/promptflow"

// ConsistentCharacter is a pure data source: it emits a cached persona
// description for downstream adapter handles, without any collaborator call.
func ConsistentCharacter(_ promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	description := in.NodeData.String("characterDescription", "")
	if description == "" {
		return promptflow.Fail("No character selected — drag one from Assets")
	}

	name := in.NodeData.String("characterName", "")
	if name == "" {
		name = "Character"
	}
	return promptflow.Succeed(promptflow.NodeOutput{
		Text:               description,
		PersonaDescription: description,
		PersonaName:        name,
	})
}

// SceneBuilder is a pure data source: it composes a scene prompt from the
// node's attribute selections.
func SceneBuilder(_ promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	selections := make(map[string]string, len(sceneCategories))
	for _, cat := range sceneCategories {
		if v := in.NodeData.String(cat.key, ""); v != "" {
			selections[cat.key] = v
		}
	}

	text := ComposeScenePrompt(selections)
	if text == "" {
		return promptflow.Fail("No scene attributes selected")
	}
	return promptflow.Succeed(promptflow.NodeOutput{Text: text})
}
