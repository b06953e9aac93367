// Package seed loads reference data (blood centers, info sections) on
// startup. Seeding is idempotent and never overwrites admin edits.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/novatangle/donorbot/core/bootstrap"
	"github.com/novatangle/donorbot/core/logger"
	"github.com/novatangle/donorbot/internal/domain"
	"github.com/novatangle/donorbot/internal/repository"
)

// ReferenceSeeder implements bootstrap.Seeder for the donor program.
type ReferenceSeeder struct{}

// Seed inserts the default blood centers and info sections when missing.
func (ReferenceSeeder) Seed(ctx context.Context, storage bootstrap.Storage) error {
	store, ok := storage.(*repository.Store)
	if !ok {
		return fmt.Errorf("seed: unexpected storage type %T", storage)
	}

	for _, c := range Centers() {
		if err := store.EnsureCenter(ctx, c); err != nil {
			return err
		}
	}
	for _, sec := range InfoSections() {
		if err := store.EnsureInfoSection(ctx, sec); err != nil {
			return err
		}
	}

	logger.SEED.Info("reference data ensured",
		slog.String("event", "db.seed"),
		slog.Int("centers", len(Centers())),
		slog.Int("info_sections", len(InfoSections())),
	)
	return nil
}

// Centers returns the partner blood centers.
func Centers() []domain.BloodCenter {
	return []domain.BloodCenter{
		{Name: "Центр крови ФМБА", ShortName: "ЦК ФМБА"},
		{Name: "Центр крови им. О.К. Гаврилова", ShortName: "ЦК Гаврилова"},
	}
}

// InfoSections returns the default info menu content.
func InfoSections() []domain.InfoSection {
	return []domain.InfoSection{
		{
			SectionKey: "blood_donation_requirements",
			Title:      "Требования к донорам",
			Content: `🩸 *Требования к донорам крови:*

• *Возраст:* Не менее 18 лет
• *Вес:* Не менее 50 кг
• *Здоровье:*
  - Отсутствие хронических заболеваний в острой фазе
  - Не болели ангиной, ОРВИ, гриппом менее чем за месяц до сдачи
  - Температура тела не выше 37°C
  - Давление: систолическое 90-160 мм рт.ст., диастолическое 60-100 мм рт.ст.
  - Гемоглобин: женщины от 120 г/л, мужчины от 130 г/л

• *Периодичность:*
  - Цельная кровь: не чаще 4-5 раз в год для мужчин, 3-4 раза для женщин`,
		},
		{
			SectionKey: "preparation",
			Title:      "Подготовка к донации",
			Content: `📋 *Подготовка к донации (за 2-3 дня):*

*Питание:*
• Исключить жирную, острую, копченую пищу
• Отказаться от фастфуда, молочных продуктов и продуктов с яйцами

*Образ жизни:*
• Отказ от алкоголя за 48 часов
• Избегать интенсивных физических нагрузок
• Отменить прием лекарственных препаратов (в т.ч. анальгетиков) за 72 часа

*Накануне:*
• Легкий ужин до 20:00
• Сон не менее 8 часов
• Обязательный завтрак (каша на воде, сладкий чай, сушки, хлеб с вареньем)
• Нельзя курить в течение часа до сдачи крови`,
		},
		{
			SectionKey: "bone_marrow",
			Title:      "Донорство костного мозга",
			Content: `🦴 *О донорстве костного мозга:*

Донорство костного мозга - это возможность спасти жизнь пациентам с заболеваниями крови.

*Процедура вступления в регистр:*
• Заполнение анкеты
• Сдача пробы крови (10 мл) для типирования
• Внесение данных в российский регистр доноров костного мозга

*Важно знать:*
• Регистрация происходит только один раз в жизни
• Вероятность стать донором составляет 1:10000
• При совпадении с пациентом вы будете уведомлены
• Процедура донации безопасна и проводится в специализированных центрах`,
		},
		{
			SectionKey: "university_process",
			Title:      "Дни донора в университете",
			Content: `🏛️ *Как проходят Дни донора:*

*Регистрация:*
1. Зарегистрируйтесь в боте
2. Выберите удобную дату и центр крови
3. Для внешних доноров - пройдите дополнительную регистрацию по ссылке

*В день донации:*
1. Приходите в назначенное время
2. Пройдите медосмотр
3. Сдайте кровь
4. При желании - сдайте пробу для регистра костного мозга
5. Получите справку и компенсацию

*Дополнительная информация:*
• Дни донора проходят два раза в семестр
• Работаем с ЦК ФМБА и ЦК им. О.К. Гаврилова
• Могут участвовать студенты, сотрудники и внешние доноры`,
		},
		{
			SectionKey: "contraindications",
			Title:      "Противопоказания",
			Content: `⚠️ *Противопоказания к донации:*

*Абсолютные противопоказания:*
• ВИЧ/СПИД, сифилис, вирусные гепатиты (B, C)
• Туберкулез, токсоплазмоз, лейшманиоз
• Онкологические заболевания, болезни крови
• Гипертония II-III ст., ишемическая болезнь
• Органические поражения ЦНС, бронхиальная астма

*Временные противопоказания:*
• ОРВИ, грипп - 1 месяц
• Ангина - 1 месяц
• Удаление зуба - 10 дней
• Менструация + 5 дней после
• Прививки - от 10 дней до 1 года
• Пирсинг, тату - 1 год`,
		},
	}
}
