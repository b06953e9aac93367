package bot

// User-facing texts. Markdown parse mode.
const (
	msgWelcome = `🩸 *Добро пожаловать в бот донорского движения университета!*

Этот бот поможет вам:
• Зарегистрироваться на Дни донора
• Получить информацию о донорстве
• Отслеживать историю ваших донаций
• Связаться с организаторами

Для начала работы необходимо пройти регистрацию.`

	msgWelcomeBack = `🩸 *Добро пожаловать, %s!*

Рады видеть вас снова в донорском движении!`

	msgRequestPhone = `📱 *Авторизация по номеру телефона*

Для регистрации в системе необходимо подтвердить ваш номер телефона.

Нажмите кнопку ниже, чтобы поделиться номером:`

	msgRequestName = `👤 *Введите ваше ФИО*

Пожалуйста, введите ваше полное ФИО (Фамилия Имя Отчество).

Пример: Иванов Иван Иванович`

	msgBadName = `⚠️ ФИО должно содержать минимум два слова (фамилию и имя) и состоять из русских букв.

Попробуйте еще раз:`

	msgRequestUserType = `👥 *Выберите вашу категорию:*

Укажите, к какой категории вы относитесь:`

	msgRequestGroup = `🎓 *Введите номер вашей группы*

Пример: Б20-505`

	msgBadGroup = `⚠️ Неверный формат группы. Ожидается формат вида Б20-505.

Попробуйте еще раз:`

	msgConsentForm = `📋 *Согласие на обработку персональных данных*

Для использования бота необходимо ваше согласие на:

• Обработку персональных данных (ФИО, телефон, данные о донациях)
• Получение уведомлений и рассылок о Днях донора
• Хранение информации о ваших донациях

Ваши данные используются исключительно для организации донорских мероприятий и не передаются третьим лицам.

*Даете ли вы согласие?*`

	msgConsentDeclined = `❌ Без согласия на обработку персональных данных использование бота невозможно.

Если передумаете, введите /start.`

	msgRegistrationDone = `✅ *Регистрация завершена!*

Добро пожаловать в донорское движение!`

	msgMainMenu = `🏠 *Главное меню*

Выберите нужный раздел:`

	msgNoEvents = `📅 На данный момент нет запланированных Дней донора.

Следите за объявлениями о новых мероприятиях!`

	msgEventRegistered = `✅ *Регистрация завершена!*

Вы успешно зарегистрированы на День донора.

Мы отправим вам напоминание накануне мероприятия.`

	msgAlreadyRegistered = `ℹ️ Вы уже зарегистрированы на этот День донора.`

	msgEventGone = `⚠️ Это мероприятие больше недоступно.`

	msgAskQuestion = `❓ *Задайте ваш вопрос*

Напишите ваш вопрос, и организаторы ответят в ближайшее время.`

	msgQuestionReceived = `✅ *Ваш вопрос получен!*

Организаторы ответят вам в ближайшее время.`

	msgFeedback = `📝 *Оставьте ваш отзыв*

Напишите, что вам понравилось или что можно улучшить.`

	msgFeedbackReceived = `🙏 Спасибо за ваш отзыв!`

	msgInfoMenu = `ℹ️ *Информация о донорстве*

Выберите интересующий раздел:`

	msgBoneMarrowJoined = `🦴 Спасибо! Мы отметили, что вы в регистре доноров костного мозга.`

	msgBoneMarrowAlready = `🦴 Вы уже отмечены в регистре доноров костного мозга.`

	msgNoShowSurvey = `😔 *Мы заметили, что вы не пришли на День донора*

Помогите нам стать лучше - укажите причину:`

	msgNoShowThanks = `🙏 Спасибо за ответ! Ждем вас на следующих Днях донора.`

	msgNotRegistered = `⚠️ Сначала нужно пройти регистрацию. Введите /start.`

	msgPermissionDenied = `🚫 У вас нет прав для выполнения этой команды.`

	msgUnknownAction = `🤷 Неизвестное действие. Введите /start для возврата в главное меню.`

	msgUnknownText = `👋 Привет! Используйте кнопки меню для навигации или введите /start для возврата в главное меню.`

	msgFailure = `⚠️ Что-то пошло не так. Попробуйте еще раз позже.`

	msgAdminPanel = `🛠️ *Панель администратора*

Добро пожаловать в панель управления ботом донорского движения.`

	msgAdminPromptCode = `🔑 Для получения прав администратора введите:

/admin <код>`

	msgAdminBadCode = `🚫 Неверный код.`

	msgPromotePrompt = `🔑 Использование: /promote <код>`

	msgAdminPromoted = `✅ Права администратора выданы. Введите /admin для входа в панель.`

	msgCreateEventPrompt = `📅 *Создание Дня донора*

Отправьте данные в формате:

` + "`ДД.ММ.ГГГГ ЧЧ:ММ | центр крови | ссылка`" + `

Ссылка на внешнюю регистрацию необязательна.

Пример: 15.09.2026 10:00 | ФМБА | https://example.org/reg`

	msgCreateEventBad = `⚠️ Не удалось разобрать строку. Проверьте формат:

` + "`ДД.ММ.ГГГГ ЧЧ:ММ | центр крови | ссылка`" + `

Дата должна быть в будущем, центр - одним из известных.`

	msgEventDeactivated = `⏸ Событие снято с публикации. Записи и донации сохранены.`

	msgAdminInfoMenu = `📝 *Редактирование информации*

Выберите раздел для редактирования:`

	msgEditInfoPrompt = `✏️ *Редактирование раздела «%s»*

Текущий текст:

%s

Отправьте новый текст раздела следующим сообщением.`

	msgInfoUpdated = `✅ Раздел обновлен.`

	msgBroadcastPrompt = `📢 *Рассылка сообщений*

Отправьте текст рассылки следующим сообщением.`

	msgBroadcastAudience = `📢 *Кому отправить рассылку?*`

	msgNoOpenQuestions = `✅ Открытых вопросов нет.`

	msgAnswerPrompt = `💬 Отправьте текст ответа следующим сообщением.`

	msgImportPrompt = `📄 *Импорт доноров*

Отправьте файл .xlsx со списком доноров.

Ожидаемые колонки: ФИО, Телефон, Тип, Группа и по одной колонке на центр крови с количеством донаций.`

	msgImportBadFile = `⚠️ Не удалось обработать файл. Проверьте, что это .xlsx с колонками ФИО и Телефон.`
)
