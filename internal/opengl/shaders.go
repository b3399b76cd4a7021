package opengl

// Built-in GLSL sources. A file named <name>.vs / <name>.fs in the shader
// directory replaces the matching built-in (see LoadShader).

// Shader names.
const (
	ShaderModel     = "model"
	ShaderMoon      = "moon"
	ShaderFirefly   = "firefly"
	ShaderGrass     = "grass"
	ShaderSkybox    = "skybox"
	ShaderBlur      = "blur"
	ShaderComposite = "bloom"
)

type shaderSource struct {
	vert string
	frag string
}

var builtinShaders = map[string]shaderSource{
	ShaderModel:     {modelVertSrc, modelFragSrc},
	ShaderMoon:      {modelVertSrc, emissiveFragSrc},
	ShaderFirefly:   {modelVertSrc, emissiveFragSrc},
	ShaderGrass:     {modelVertSrc, grassFragSrc},
	ShaderSkybox:    {skyboxVertSrc, skyboxFragSrc},
	ShaderBlur:      {quadVertSrc, blurFragSrc},
	ShaderComposite: {quadVertSrc, compositeFragSrc},
}

// ── Scene pass ────────────────────────────────────────────────────────────────

const modelVertSrc = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoords;

out vec3 FragPos;
out vec3 Normal;
out vec2 TexCoords;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

void main() {
    FragPos   = vec3(model * vec4(aPos, 1.0));
    Normal    = mat3(transpose(inverse(model))) * aNormal;
    TexCoords = aTexCoords;
    gl_Position = projection * view * vec4(FragPos, 1.0);
}
`

// brightPass is shared by every shader that writes the scene target: the
// second attachment gets the fragment when its luminance exceeds threshold.
const brightPass = `
uniform float threshold;

vec4 brightPass(vec3 color) {
    float luma = dot(color, vec3(0.2126, 0.7152, 0.0722));
    return luma > threshold ? vec4(color, 1.0) : vec4(0.0, 0.0, 0.0, 1.0);
}
`

const modelFragSrc = `
#version 410 core
layout (location = 0) out vec4 FragColor;
layout (location = 1) out vec4 BrightColor;

in vec3 FragPos;
in vec3 Normal;
in vec2 TexCoords;

struct Material {
    sampler2D diffuseMap;   // unit 0
    sampler2D specularMap;  // unit 1
    bool  hasDiffuseMap;
    bool  hasSpecularMap;
    vec3  diffuse;
    vec3  specular;
    float shininess;
};

struct DirLight {
    vec3 direction;
    vec3 ambient;
    vec3 diffuse;
    vec3 specular;
};

struct PointLight {
    vec3 position;
    vec3 ambient;
    vec3 diffuse;
    vec3 specular;
    float constant;
    float linear;
    float quadratic;
};

struct SpotLight {
    vec3 position;
    vec3 direction;
    vec3 ambient;
    vec3 diffuse;
    vec3 specular;
    float constant;
    float linear;
    float quadratic;
    float cutOff;
    float outerCutOff;
};

uniform Material   material;
uniform DirLight   dirLight;
uniform PointLight lamps[2];
uniform PointLight fireflies[3];
uniform SpotLight  torch;
uniform bool       torchOn;
uniform vec3       viewPos;
` + brightPass + `
vec3 blinnPhong(vec3 lightDir, vec3 normal, vec3 viewDir, vec3 ambient, vec3 diffuse, vec3 specular, vec3 albedo, vec3 spec) {
    vec3  halfway = normalize(lightDir + viewDir);
    float diff = max(dot(normal, lightDir), 0.0);
    float s    = pow(max(dot(normal, halfway), 0.0), material.shininess);
    return ambient * albedo + diffuse * diff * albedo + specular * s * spec;
}

float attenuation(vec3 pos, float c, float l, float q) {
    float d = length(pos - FragPos);
    return 1.0 / (c + l * d + q * d * d);
}

vec3 pointLight(PointLight light, vec3 normal, vec3 viewDir, vec3 albedo, vec3 spec) {
    vec3 lightDir = normalize(light.position - FragPos);
    return blinnPhong(lightDir, normal, viewDir, light.ambient, light.diffuse, light.specular, albedo, spec)
        * attenuation(light.position, light.constant, light.linear, light.quadratic);
}

void main() {
    vec4 base = vec4(material.diffuse, 1.0);
    if (material.hasDiffuseMap) {
        base *= texture(material.diffuseMap, TexCoords);
    }
    if (base.a < 0.1) {
        discard;
    }
    vec3 albedo = base.rgb;
    vec3 spec   = material.hasSpecularMap ? texture(material.specularMap, TexCoords).rgb : material.specular;

    vec3 normal  = normalize(Normal);
    vec3 viewDir = normalize(viewPos - FragPos);
    if (dot(normal, viewDir) < 0.0) {
        normal = -normal; // two-sided foliage
    }

    vec3 result = blinnPhong(normalize(-dirLight.direction), normal, viewDir,
        dirLight.ambient, dirLight.diffuse, dirLight.specular, albedo, spec);
    for (int i = 0; i < 2; i++) {
        result += pointLight(lamps[i], normal, viewDir, albedo, spec);
    }
    for (int i = 0; i < 3; i++) {
        result += pointLight(fireflies[i], normal, viewDir, albedo, spec);
    }
    if (torchOn) {
        vec3  lightDir  = normalize(torch.position - FragPos);
        float theta     = dot(lightDir, normalize(-torch.direction));
        float epsilon   = torch.cutOff - torch.outerCutOff;
        float intensity = clamp((theta - torch.outerCutOff) / epsilon, 0.0, 1.0);
        result += blinnPhong(lightDir, normal, viewDir, torch.ambient, torch.diffuse, torch.specular, albedo, spec)
            * attenuation(torch.position, torch.constant, torch.linear, torch.quadratic) * intensity;
    }

    FragColor   = vec4(result, 1.0);
    BrightColor = brightPass(result);
}
`

// emissiveFragSrc draws light sources (moon, fireflies) as flat HDR color.
const emissiveFragSrc = `
#version 410 core
layout (location = 0) out vec4 FragColor;
layout (location = 1) out vec4 BrightColor;

in vec3 FragPos;
in vec3 Normal;
in vec2 TexCoords;

uniform vec3 lightColor;
` + brightPass + `
void main() {
    FragColor   = vec4(lightColor, 1.0);
    BrightColor = brightPass(lightColor);
}
`

const grassFragSrc = `
#version 410 core
layout (location = 0) out vec4 FragColor;
layout (location = 1) out vec4 BrightColor;

in vec3 FragPos;
in vec3 Normal;
in vec2 TexCoords;

uniform sampler2D texture1;
` + brightPass + `
void main() {
    vec4 texColor = texture(texture1, TexCoords);
    if (texColor.a < 0.1) {
        discard;
    }
    FragColor   = texColor;
    BrightColor = brightPass(texColor.rgb);
}
`

const skyboxVertSrc = `
#version 410 core
layout (location = 0) in vec3 aPos;

out vec3 TexCoords;

uniform mat4 view;       // rotation only
uniform mat4 projection;

void main() {
    TexCoords = aPos;
    vec4 pos = projection * view * vec4(aPos, 1.0);
    gl_Position = pos.xyww; // depth 1.0, drawn behind everything
}
`

const skyboxFragSrc = `
#version 410 core
layout (location = 0) out vec4 FragColor;
layout (location = 1) out vec4 BrightColor;

in vec3 TexCoords;

uniform samplerCube skybox;

void main() {
    FragColor   = texture(skybox, TexCoords);
    BrightColor = vec4(0.0, 0.0, 0.0, 1.0);
}
`

// ── Post-process ──────────────────────────────────────────────────────────────

// quadVertSrc reads the triangle-strip quad: position at 0, uv at 1.
const quadVertSrc = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoords;

out vec2 TexCoords;

void main() {
    TexCoords   = aTexCoords;
    gl_Position = vec4(aPos, 1.0);
}
`

// blurFragSrc: one axis of the 9-tap separable Gaussian.
const blurFragSrc = `
#version 410 core
out vec4 FragColor;

in vec2 TexCoords;

uniform sampler2D image;
uniform bool horizontal;
uniform float weight[5] = float[] (0.227027, 0.1945946, 0.1216216, 0.054054, 0.016216);

void main() {
    vec2 texel  = 1.0 / textureSize(image, 0);
    vec3 result = texture(image, TexCoords).rgb * weight[0];
    vec2 step   = horizontal ? vec2(texel.x, 0.0) : vec2(0.0, texel.y);
    for (int i = 1; i < 5; ++i) {
        result += texture(image, TexCoords + step * i).rgb * weight[i];
        result += texture(image, TexCoords - step * i).rgb * weight[i];
    }
    FragColor = vec4(result, 1.0);
}
`

// compositeFragSrc: scene + bloom, exposure tone map, optional gamma.
const compositeFragSrc = `
#version 410 core
out vec4 FragColor;

in vec2 TexCoords;

uniform sampler2D scene;      // unit 0
uniform sampler2D bloomBlur;  // unit 1
uniform bool  bloom;
uniform float bloomStrength;
uniform float exposure;
uniform float gamma;          // 0 or 1 = leave linear

void main() {
    vec3 hdr = texture(scene, TexCoords).rgb;
    if (bloom) {
        hdr += texture(bloomBlur, TexCoords).rgb * bloomStrength;
    }
    vec3 result = vec3(1.0) - exp(-hdr * exposure);
    if (gamma > 0.0 && gamma != 1.0) {
        result = pow(result, vec3(1.0 / gamma));
    }
    FragColor = vec4(result, 1.0);
}
`
