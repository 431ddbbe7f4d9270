// internal/workers/conversation/resolve-intent/templates.go
package resolveintent

var greetingResponses = []string{
	"안녕하세요! 무엇을 도와드릴까요?",
	"반갑습니다! 오늘은 어떤 도움이 필요하신가요?",
	"안녕하세요! 좋은 하루 되고 계신가요?",
	"어서오세요! 무엇을 알려드릴까요?",
	"반가워요! 무엇이든 물어보세요.",
}

var byeResponses = []string{
	"안녕히 가세요! 좋은 하루 되세요!",
	"다음에 또 봐요! 좋은 시간 되세요.",
	"이용해 주셔서 감사합니다. 또 필요하시면 언제든 불러주세요!",
	"좋은 하루 보내세요! 다음에 또 만나요.",
	"안녕히 계세요! 또 뵙겠습니다.",
}

var weatherDescriptions = map[string]string{
	"맑음":   "화창한 날씨입니다! 야외 활동하기 좋은 날이에요.",
	"구름많음": "구름이 조금 있지만 나쁘지 않은 날씨입니다.",
	"흐림":   "하늘이 흐리네요. 우산을 챙기는 것이 좋을 수 있어요.",
	"비":    "비가 내리고 있어요. 외출 시 우산을 꼭 챙기세요!",
	"소나기":  "소나기가 내리고 있어요. 잠시 실내에서 대기하는 것이 좋겠습니다.",
	"눈":    "눈이 내리고 있어요. 미끄러울 수 있으니 조심하세요!",
	"안개":   "안개가 끼었네요. 운전 시 특히 주의하세요.",
	"천둥번개": "천둥번개가 치고 있어요. 야외 활동은 위험할 수 있습니다.",
}

// Response templates use {{key}} placeholders filled from the solution data.
var responseTemplates = map[string]string{
	"greeting":    "{{greeting}}",
	"weather":     "{{location}}의 현재 날씨는 {{weather}}입니다. {{weatherDetail}}",
	"temperature": "{{location}}의 현재 기온은 {{temperature}}°C입니다. {{tempDescription}}",
	"time":        "현재 시간은 {{time}}입니다.",
	"bye":         "{{bye}}",
	"thanks":      "천만에요! 더 필요한 것이 있으면 말씀해주세요.",
	"help":        "저는 날씨, 시간 정보를 알려드리거나 간단한 대화가 가능해요. '서울 날씨 어때?'나 '지금 몇시야?' 같은 질문을 해보세요.",
	"error":       "{{fallbackResponse}}",
	"fallback":    "{{fallbackResponse}}",
}

const (
	systemErrorResponse  = "시스템 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	notUnderstoodMessage = "잘 이해하지 못했습니다. 도움이 필요하시면 '도움말'이라고 입력해주세요."

	dateTimeLayout = "2006년 01월 02일 15시 04분"
)

// Template returns the response template registered for intent, or the
// fallback template.
func Template(intent string) string {
	if t, ok := responseTemplates[intent]; ok {
		return t
	}
	return responseTemplates["fallback"]
}

// GreetingResponses and ByeResponses expose the canned phrases.
func GreetingResponses() []string { return append([]string(nil), greetingResponses...) }
func ByeResponses() []string      { return append([]string(nil), byeResponses...) }
