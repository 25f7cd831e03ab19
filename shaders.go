package sprig

import (
	"fmt"
	"strings"
)

var vertexShader = []byte(`#version 410 core
layout (location = 0) in vec2 aPosition;
layout (location = 1) in vec4 aColor;
layout (location = 2) in vec2 aTexCoord;
layout (location = 3) in int aSlot;

out vec4 vColor;
out vec2 vTexCoord;
flat out int vSlot;

uniform mat4 uProjection;

void main()
{
	gl_Position = uProjection * vec4(aPosition, 0.0, 1.0);
	vColor = aColor;
	vTexCoord = aTexCoord;
	vSlot = aSlot;
}
`)

// sampler arrays may only be indexed with dynamically uniform expressions, so
// the fragment shader selects the sampler with a switch over constant indices.
const quadFragmentHead = `#version 410 core
in vec4 vColor;
in vec2 vTexCoord;
flat in int vSlot;

out vec4 fragColor;

uniform sampler2D uTextures[%d];

void main()
{
	vec4 texel = vec4(1.0);
	switch (vSlot) {
`

const quadFragmentTail = `	}
	fragColor = vColor * texel;
}
`

func quadFragmentShader(slots int) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, quadFragmentHead, slots)
	for i := 0; i < slots; i++ {
		fmt.Fprintf(&sb, "\tcase %d: texel = texture(uTextures[%d], vTexCoord); break;\n", i, i)
	}
	sb.WriteString(quadFragmentTail)
	return []byte(sb.String())
}

// The atlas is single channel. The gl backend swizzles R8 textures to
// (1, 1, 1, R) so that coverage ends up in alpha.
var glyphFragmentShader = []byte(`#version 410 core
in vec4 vColor;
in vec2 vTexCoord;
flat in int vSlot;

out vec4 fragColor;

uniform sampler2D uAtlas;

void main()
{
	fragColor = vec4(vColor.rgb, vColor.a * texture(uAtlas, vTexCoord).a);
}
`)
