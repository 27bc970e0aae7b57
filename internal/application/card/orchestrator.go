package card

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"daily-muse-api/internal/domain/entity"
	"daily-muse-api/internal/domain/repository"
	"daily-muse-api/pkg/logger"
	"daily-muse-api/pkg/metrics"
)

// Snapshot 编排器对外暴露的状态快照
type Snapshot struct {
	Status       entity.GenerationStatus
	Card         *entity.QuoteCard
	ErrorMessage string
	Preferences  entity.Preferences
}

// Orchestrator 每日卡片编排器。
// 判定缓存命中与否，并驱动两步生成管线；同一时刻至多一条管线在途。
type Orchestrator struct {
	mu       sync.Mutex
	status   entity.GenerationStatus
	current  *entity.QuoteCard
	errMsg   string
	prefs    entity.Preferences
	inFlight bool

	provider ContentProvider
	cards    repository.CardRepository

	// loads 合并同一身份上并发的首次加载，避免重复触发管线
	loads singleflight.Group

	now func() time.Time
}

// NewOrchestrator 创建编排器，初始状态 idle、默认参数
func NewOrchestrator(provider ContentProvider, cards repository.CardRepository) *Orchestrator {
	return &Orchestrator{
		status:   entity.StatusIdle,
		prefs:    entity.DefaultPreferences(),
		provider: provider,
		cards:    cards,
		now:      time.Now,
	}
}

// Snapshot 返回当前状态快照
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		Status:       o.status,
		Card:         o.current,
		ErrorMessage: o.errMsg,
		Preferences:  o.prefs,
	}
}

// activeIdentityLocked 当前激活的缓存身份：本地今日 + 当前语言
func (o *Orchestrator) activeIdentityLocked() entity.CardIdentity {
	return entity.CardIdentity{
		Date:     entity.DateString(o.now()),
		Language: o.prefs.Language,
	}
}

// LoadOrInitialize 首次加载：缓存命中则采用缓存记录，
// 未命中则用默认参数（而非用户半途调整的参数）触发一次生成。
// 同一身份上的并发加载被合并为一条管线。
func (o *Orchestrator) LoadOrInitialize(ctx context.Context) Snapshot {
	o.mu.Lock()
	identity := o.activeIdentityLocked()
	o.mu.Unlock()

	cached, err := o.cards.Get(ctx, identity)
	if err != nil {
		// 缓存读取失败按未命中处理，仍给用户一次生成机会
		logger.Error(ctx, "cache lookup failed on load", err, "date", identity.Date, "language", identity.Language)
	}
	if cached != nil {
		o.mu.Lock()
		o.current = cached
		o.status = entity.StatusCompleted
		o.errMsg = ""
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap
	}

	key := entity.DateString(o.now()) + "|" + string(identity.Language)
	result, _, _ := o.loads.Do(key, func() (any, error) {
		return o.Generate(ctx, true), nil
	})
	return result.(Snapshot)
}

// SetLanguage 切换语言：仅对新语言重查同日缓存，绝不自动消耗生成调用。
// 命中则采用；未命中则清空当前记录并回到 idle。
func (o *Orchestrator) SetLanguage(ctx context.Context, lang entity.Language) (Snapshot, error) {
	if !lang.Valid() {
		return o.Snapshot(), fmt.Errorf("unsupported language: %q", lang)
	}

	o.mu.Lock()
	o.prefs.Language = lang
	identity := o.activeIdentityLocked()
	o.mu.Unlock()

	cached, err := o.cards.Get(ctx, identity)
	if err != nil {
		logger.Error(ctx, "cache lookup failed on language switch", err, "language", lang)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if cached != nil {
		o.current = cached
		o.status = entity.StatusCompleted
		o.errMsg = ""
	} else {
		o.current = nil
		o.status = entity.StatusIdle
		o.errMsg = ""
	}
	return o.snapshotLocked(), nil
}

// SetPreferences 更新拨盘与展示参数，语言走 SetLanguage
func (o *Orchestrator) SetPreferences(mood, weather, luck int, style entity.ArtStyle, layout entity.CardLayout) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	p := o.prefs
	p.Mood, p.Weather, p.Luck = mood, weather, luck
	p.ArtStyle = style
	p.Layout = layout
	if err := p.Validate(); err != nil {
		return o.snapshotLocked(), err
	}
	o.prefs = p
	return o.snapshotLocked(), nil
}

// Generate 驱动一次完整的生成管线。
// 已有管线在途时为严格空操作，直接返回当前快照，不排队不合并。
func (o *Orchestrator) Generate(ctx context.Context, useDefaults bool) Snapshot {
	o.mu.Lock()
	if o.inFlight {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap
	}

	prefsUsed := o.prefs
	if useDefaults {
		// 首次加载用默认拨盘与风格，但语言跟随当前激活语言，
		// 否则管线目标会偏离激活身份，结果刚生成就被丢弃
		lang := o.prefs.Language
		prefsUsed = entity.DefaultPreferences()
		prefsUsed.Language = lang
	}
	// 管线启动即固定目标身份，提交时身份不符的结果会被整体丢弃
	target := entity.CardIdentity{
		Date:     entity.DateString(o.now()),
		Language: prefsUsed.Language,
	}

	o.inFlight = true
	o.status = entity.StatusGeneratingText
	o.errMsg = ""
	o.mu.Unlock()

	return o.runPipeline(ctx, prefsUsed, target)
}

// runPipeline 顺序执行 文本 -> 图像 -> 持久化 三步
func (o *Orchestrator) runPipeline(ctx context.Context, prefs entity.Preferences, target entity.CardIdentity) Snapshot {
	ctx = logger.WithContext(ctx, logger.CardKeyKey, target.Date+":"+string(target.Language))

	textStart := o.now()
	content, err := o.provider.GenerateQuote(ctx, prefs)
	metrics.CardGenerationStepDuration.WithLabelValues("text").Observe(o.now().Sub(textStart).Seconds())
	if err != nil {
		logger.Error(ctx, "quote generation failed", err, "date", target.Date, "language", target.Language)
		return o.fail(target, prefs.Language)
	}

	o.setStatusIfActive(target, entity.StatusGeneratingImage)

	imageStart := o.now()
	imageURL, err := o.provider.GenerateImage(ctx, content.ImagePrompt)
	metrics.CardGenerationStepDuration.WithLabelValues("image").Observe(o.now().Sub(imageStart).Seconds())
	if err != nil {
		logger.Error(ctx, "image generation failed", err, "date", target.Date, "language", target.Language)
		return o.fail(target, prefs.Language)
	}

	card := entity.NewQuoteCard(content, imageURL, target)

	o.mu.Lock()
	active := o.activeIdentityLocked()
	o.mu.Unlock()

	if active != target {
		// 用户已切走日期/语言，迟到的结果既不持久化也不采用
		logger.Warn(ctx, "discarding stale pipeline result",
			"target_date", target.Date, "target_language", target.Language,
			"active_date", active.Date, "active_language", active.Language)
		metrics.CardGenerationTotal.WithLabelValues(string(target.Language), "discarded").Inc()
		o.mu.Lock()
		o.inFlight = false
		// 身份切换方通常已重置过状态；日期翻转等无人重置的场合
		// 不能让状态停在 generating
		if o.status.IsGenerating() {
			o.status = entity.StatusIdle
		}
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap
	}

	if err := o.cards.Put(ctx, card); err != nil {
		logger.Error(ctx, "failed to persist card", err, "date", target.Date, "language", target.Language)
		return o.fail(target, prefs.Language)
	}

	metrics.CardGenerationTotal.WithLabelValues(string(target.Language), "completed").Inc()

	o.mu.Lock()
	o.current = card
	o.status = entity.StatusCompleted
	o.errMsg = ""
	o.inFlight = false
	snap := o.snapshotLocked()
	o.mu.Unlock()
	return snap
}

// fail 统一的失败收口：状态置 error，错误信息按本次生成语言本地化，
// 半成品一律丢弃、不持久化
func (o *Orchestrator) fail(target entity.CardIdentity, lang entity.Language) Snapshot {
	metrics.CardGenerationTotal.WithLabelValues(string(lang), "error").Inc()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = false
	if o.activeIdentityLocked() == target {
		o.status = entity.StatusError
		o.errMsg = failureMessage(lang)
	} else if o.status.IsGenerating() {
		o.status = entity.StatusIdle
	}
	return o.snapshotLocked()
}

// setStatusIfActive 仅在管线目标仍是激活身份时推进状态
func (o *Orchestrator) setStatusIfActive(target entity.CardIdentity, status entity.GenerationStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.activeIdentityLocked() == target {
		o.status = status
	}
}

// failureMessage 面向用户的统一失败文案，不区分失败原因
func failureMessage(lang entity.Language) string {
	if lang == entity.LanguageZH {
		return "生成失败，请检查您的 API 密钥并重试。"
	}
	return "Generation failed, please check your API key and try again."
}
