package directives

import (
	"testing"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/sht"
)

func Test_IF_Element(t *testing.T) {

	template := `
    <div>
      <if cond="valueTrue">A</if>
      <if cond="valueFalse">B</if>
      <if cond="!valueTrue">C</if>
      <if cond="!valueFalse">D</if>
      <if cond="valueTrue and valueFalse">E</if>
      <if cond="valueTrue or valueFalse">F</if>
      <if cond="valueTrue">G
        <if cond="valueTrue">G.1</if>
        <if cond="valueFalse">G.2</if>
      </if>
      <if cond="valueNotFound">H</if>
    </div>`

	values := map[string]interface{}{
		"valueTrue":  true,
		"valueFalse": false,
	}

	expected := `
    <div>
      A
      
      
      D
      
      F
      G
        G.1
        
      
      
    </div>`

	sht.TestTemplate(t, template, values, expected, testSystem())
}

func Test_IF_Attribute(t *testing.T) {

	template := `
    <ul>
      <li if="count > 1">many</li>
      <li if="count == 1" class="one">one</li>
      <li if="count == 0">none</li>
    </ul>`

	expected := `
    <ul>
      
      <li class="one">one</li>
      
    </ul>`

	sht.TestTemplate(t, template, map[string]interface{}{"count": 1}, expected, testSystem())
}

func Test_IF_Without_Condition(t *testing.T) {
	var tests = []string{
		`<if>A</if>`,
		`<if cond="  ">A</if>`,
		`<span if="">A</span>`,
	}
	for _, template := range tests {
		t.Run(template, func(t *testing.T) {
			_, err := sht.NewCompiler(testSystem()).Compile(template, "template.html")
			if !cmn.IsCode(err, "directive.if.cond") {
				t.Errorf("Compile(template) | expected [directive.if.cond] error, actual: %v", err)
			}
		})
	}
}
