package advisor

// Fixed user-facing messages. Every degraded path ends in one of these
// instead of an error page.
const (
	MsgChitChatRefusal = "저는 취업과 직무 추천을 도와드리는 커리어 어드바이저입니다. 취업과 관련된 질문을 해주시면 최선을 다해 도와드릴게요!"

	MsgRequestSelection = "앞서 추천해드린 공고 목록에서 번호나 회사 이름으로 선택해주세요. 다른 공고를 원하시면 \"다른 회사 추천해줘\"라고 말씀해주세요."

	MsgConfirmAnalysis = "이 공고에 대한 심층 분석(기업 정보, 면접 준비, 지원 전략)을 진행할까요? 원하시면 \"네\"라고 답해주세요."

	MsgFurtherAction = "어떻게 도와드릴까요? 이 공고의 심층 분석을 원하시면 \"네\", 다른 공고를 보고 싶으시면 \"다른 회사 추천해줘\"라고 말씀해주세요."

	MsgNoResults = "조건에 맞는 공고를 찾지 못했습니다. 희망 직무나 지역을 조금 바꿔서 다시 요청해주시겠어요?"

	MsgGenericFallback = "죄송합니다. 답변을 생성하는 중 문제가 발생했습니다. 다시 시도해주세요."

	MsgSearchUnavailable = "죄송합니다. 지금은 검색 정보를 가져올 수 없습니다."
)
