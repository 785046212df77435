package conversation

const (
	msgWelcome = "سلام دوست خوبم👋\n" +
		"🤖به ربات ماز خوش اومدی🤖\n\n" +
		"من اینجام تا مرحله به مرحله در خصوص محصولات، مشاوره و شرایط اقساطی نمایندگی ماز راهنماییت کنم🦾\n\n" +
		"🔻از منوی زیر بخش مورد نظرت رو انتخاب کن تا به امکانات من دسترسی داشته باشی😉"
	msgCanceled     = "عملیات لغو شد."
	msgGeneralError = "ببخشید نفهمیدم به چی نیاز داری! لطفا یکی از گزینه های منو رو انتخاب کنید."
	msgInvalidInput = "❌ لطفا یکی از گزینه‌های معتبر را انتخاب کنید."
	msgContact      = "برای ارتباط با ما و پشتیبانی میتونید به آیدی @%s پیام بدید😊"
	msgHelp         = "📚 راهنمای استفاده از ربات:\n\n" +
		"🛒 نحوه خرید:\n" +
		"1. روی \"📚 محصولات\" کلیک کنید\n" +
		"2. پایه تحصیلی خود را انتخاب کنید\n" +
		"3. برای پایه‌های دهم تا دوازدهم، رشته را انتخاب کنید\n" +
		"4. محصول مورد نظر را انتخاب کنید\n" +
		"5. روی \"🛒 خرید\" کلیک کنید\n" +
		"6. کد معرف خود را وارد کنید (اختیاری)\n" +
		"7. سفارش شما ثبت می‌شود\n\n" +
		"🎫 کد معرف:\n" +
		"• اگر کد معرف دارید: برای پیگیری فروش توسط نماینده\n" +
		"• اگر کد معرف ندارید: مستقیماً خرید به قیمت کاتالوگ\n\n" +
		"📞 پشتیبانی: @%s"
	msgReferralIncome = "💰 برای درآمدزایی و معرفی دوستان، کد معرف اختصاصی خود را از پشتیبانی بگیرید: @%s"

	msgProcessingError = "❌ خطا در پردازش درخواست."
	msgSMSError        = "❌ خطا در ارسال پیامک. لطفا دوباره از منو شروع کنید."
	msgNotFound        = "❌ مورد درخواستی یافت نشد."
	msgConflict        = "❌ این اطلاعات قبلاً برای حساب دیگری ثبت شده است."

	msgOTPSent = "✅ کد تایید پیامک شد. لطفاً کد را وارد کنید:"

	msgAskName             = "👤 لطفاً نام و نام خانوادگی خود را به فارسی وارد کنید:\nانصراف : /cancel"
	msgAskCity             = "👤 لطفاً شهر خود را انتخاب کنید:\n انصراف : /cancel"
	msgAskArea             = "منطقه تحصیلی خود را به عدد وارد کنید(مثال: 1یا 2 یا 3)"
	msgAskNationalID       = "حالا کد ملی خود را وارد کنید(مثال: 1234567890)"
	msgAskPhone            = "حالا شماره موبایل خود را وارد کنید(مثال: 09123456789)"
	msgAlreadyRegistered   = "شما قبلاً ثبت‌نام کردید ✅"
	msgRegistrationSuccess = "🎉 ثبت‌نام شما با موفقیت انجام شد!"
	msgInvalidName         = "❌ لطفاً نام و نام خانوادگی را به‌درستی و به زبان فارسی وارد کنید."
	msgInvalidCity         = "❌ شهر وارد شده معتبر نیست. لطفاً شهر را به صورت صحیح وارد کنید."
	msgInvalidArea         = "❌ منطقه وارد شده معتبر نیست. لطفاً منطقه را به صورت صحیح وارد کنید."
	msgInvalidNationalID   = "❌ کد ملی وارد شده معتبر نیست. لطفاً کد ملی را به صورت صحیح وارد کنید."
	msgInvalidPhone        = "❌ شماره وارد شده معتبر نیست. لطفاً شماره را به صورت صحیح وارد کنید."
	msgPhoneTaken          = "❌ این شماره قبلاً با حساب دیگری ثبت شده است. لطفاً شماره دیگری وارد کنید."
	msgRegistrationOTP     = "❌ کد وارد شده صحیح نیست. لطفا فرآیند ثبت نام را از اول انجام دهید دوباره تلاش کنید:"

	msgGradeSelection   = "برای دیدن محصولات پایه تحصیلی مورد نظر خود را انتخاب کنید:"
	msgMajorSelection   = "برای انتخاب رشته مورد نظر خود را انتخاب کنید:"
	msgProductSelection = "برای دیدن جزییات و خرید روی محصول مورد نظر کلیک کنید:"
	msgNoProducts       = "محصولی برای این پایه و رشته یافت نشد"
	msgProductNotFound  = "محصول مورد نظر یافت نشد"
	msgProductDetails   = "جزییات محصول:\n%s\nقیمت: %s تومان"
	msgAlmasDescription = "💎اشتراک الماس رو فقط از طریق نمایندگی تهران میتونی اقساطی تهیه کنی‼️\n\n" +
		"🎯دسترسی کامل به خدمات ماز تا روز کنکور \n" +
		"💰پرداخت چند مرحله ای بدون بهره \n" +
		"🎉دسترسی به خدمات تکمیلی نمایندگی\n\n" +
		"🔻برای ادامه پایه تحصیلی خودتو انتخاب کن"

	msgNotRegistered         = "شما هنوز ثبت نام نکردید برای خرید نیاز است که ابتدا ثبت نام کنید"
	msgAskReferral           = "کد معرف دارید؟"
	msgEnterReferral         = "لطفا کد معرف خود را وارد کنید:"
	msgInvalidReferral       = "کد معرف معتبر نیست. لطفا دوباره تلاش کنید:"
	msgSelectPayment         = "نوع پرداخت خود را انتخاب کنید:"
	msgInvalidPayment        = "❌ لطفا یکی از گزینه‌های پرداخت را انتخاب کنید."
	msgInstallmentNotAllowed = "کد معرف شما قابلیت پرداخت قسطی ندارد. لطفاً پرداخت نقدی را انتخاب کنید:"
	msgPayCash               = "💳 مبلغ قابل پرداخت: %s تومان\nشماره کارت برای واریز: %s %s\n\n📸 لطفا اسکرین‌شات رسید واریزی را ارسال کنید.\n\n انصراف: /start"
	msgPayInstallment        = "💳 مبلغ قسط اول: %s تومان\nشماره کارت برای واریز: %s %s\n\n📸 لطفا اسکرین‌شات رسید واریزی را ارسال کنید.\n\n انصراف: /start"
	msgPhotoOnly             = "لطفاً یک عکس از فیش واریزی ارسال کنید."
	msgOrderSuccess          = "✅ سفارش شما ثبت شد. بسته شما تا ساعاتی دیگر ارسال خواهد شد.\n\n بازگشت به منو: /start"

	msgNoInstallments     = "شما هیچ خرید قسطی ثبت نکرده‌اید."
	msgSelectInstallment  = "🔻 یک محصول را انتخاب کنید تا اقساط آن را ببینید:"
	msgInstallmentDetails = "💎 سفارش: %s\n💰 قیمت کل: %s تومان\n📆 تعداد اقساط: %d\n💵 مبلغ هر قسط: %s تومان\n"
	msgSlotPaid           = "🧾 قسط %d - ✅ پرداخت شده در %s"
	msgSlotUnpaid         = "🧾 قسط %d - پرداخت نشده ❌"
	msgUploadReceipt      = "📸 لطفاً رسید قسط %d را ارسال کنید."
	msgReceiptUploaded    = "✅ رسید قسط %d با موفقیت ثبت شد."
	msgOrderNotFound      = "سفارش مورد نظر یافت نشد."

	msgNoLottery          = "در حال حاضر قرعه‌کشی فعالی وجود ندارد."
	msgSelectLottery      = "🎲 لطفا قرعه کشی مورد نظر خود را انتخاب کنید:\n\nانصراف: /cancel"
	msgLotteryNotFound    = "❌ قرعه کشی مورد نظر یافت نشد. لطفا دوباره انتخاب کنید:"
	msgLotteryJoined      = "✅ شما قبلاً در قرعه‌کشی '%s' ثبت‌نام کرده‌اید!\n\n📋 توضیحات: %s\n\nبازگشت به منو: /start"
	msgLotteryClosed      = "⛔️ ظرفیت قرعه‌کشی '%s' تکمیل شده یا مهلت آن به پایان رسیده است.\n\nبازگشت به منو: /start"
	msgLotteryAskPhone    = "🎲 قرعه‌کشی انتخابی: %s\n📋 توضیحات: %s\n\n📱 لطفاً شماره موبایل خود را برای شرکت در قرعه‌کشی وارد کنید (مثال: 09123456789):\n\nانصراف: /cancel"
	msgLotteryOTPMismatch = "❌ کد وارد شده صحیح نیست. لطفا دوباره از منو اقدام کنید."
	msgLotterySuccess     = "🎉 تبریک! شما با موفقیت در قرعه‌کشی '%s' ثبت‌نام شدید!\n\n📱 شماره ثبت شده: %s\n🎲 قرعه‌کشی: %s\n\n🍀 موفق باشید!\n\nبازگشت به منو: /start"

	msgCRMAskPhone    = "📱 لطفاً شماره موبایل خود را برای مشاوره تلفنی رایگان وارد کنید (مثال: 09123456789):\nانصراف : /cancel"
	msgCRMNotSure     = "👈بهت پیشنهاد میکنم برای راهنمایی کامل تر و رفع ابهامات با مشاورین مجموعه ما در ارتباط باشی🌹\n\nکافیه شماره تماست رو برامون ارسال کنی تا در اولین فرصت باهات تماس بگیریم☎️"
	msgCRMOTPMismatch = "❌ کد وارد شده صحیح نیست. لطفا دوباره از منو اقدام کنید."
	msgCRMSuccess     = "✅ اطلاعات شما با موفقیت ثبت شد! مشاوران ما در اسرع وقت با شما تماس خواهند گرفت."

	msgCoopIntro = "🤝 همکاری با نمایندگی ماز\n\n" +
		"🌟 ما همیشه به دنبال افراد با انگیزه و متخصص هستیم\n\n" +
		"📱 لطفاً شماره موبایل خود را وارد کنید (مثال: 09123456789):\n\n" +
		"انصراف: /cancel"
	msgCoopOTPMismatch = "❌ کد وارد شده صحیح نیست. لطفا دوباره تلاش کنید:"
	msgCoopAskCity     = "✅ شماره تلفن شما تایید شد!\n\n🏙️ حالا لطفاً شهر محل سکونت خود را وارد کنید:"
	msgCoopInvalidCity = "❌ لطفاً نام شهر را به درستی وارد کنید:"
	msgCoopAskResume   = "✅ شهر شما ثبت شد!\n\n" +
		"حالا لطفا موارد زیر را به صورت متنی ارسال کنید:\n" +
		"• نام و نام خانوادگی\n" +
		"• سن\n" +
		"• تحصیلات\n" +
		"• مهارت‌ها و تخصص‌ها\n" +
		"• سوابق کاری"
	msgCoopResumeShort = "❌ رزومه شما خیلی کوتاه است. لطفاً اطلاعات بیشتری در مورد خودتان ارائه دهید:\n(حداقل %d کاراکتر)"
	msgCoopTextOnly    = "❌ لطفاً رزومه خود را فقط به صورت متن ارسال کنید، نه فایل یا عکس.\n📝 رزومه خود را تایپ کنید:"
	msgCoopSuccess     = "✅ رزومه شما با موفقیت ثبت شد!\n\n" +
		"🔍 تیم ما رزومه شما را بررسی خواهد کرد\n" +
		"📞 در صورت تایید، در اسرع وقت با شما تماس خواهیم گرفت\n\n" +
		"🙏 از علاقه شما به همکاری با ما متشکریم\n\n" +
		"بازگشت به منو: /start"
	msgCoopUpdated = "✅ رزومه شما با موفقیت به‌روزرسانی شد!\n\n" +
		"🔍 تیم ما رزومه جدید شما را بررسی خواهد کرد\n" +
		"📞 در صورت تایید، در اسرع وقت با شما تماس خواهیم گرفت\n\n" +
		"🙏 از علاقه شما به همکاری با ما متشکریم\n\n" +
		"بازگشت به منو: /start"
)

// Reply keyboard labels. Menu labels double as commands that interrupt any flow.
const (
	btnRegister       = "👤 ثبت نام"
	btnLottery        = "🎲 قرعه کشی"
	btnProducts       = "📚 خرید ویژه محصولات از نمایندگی 📚"
	btnHelp           = "💡 راهنما"
	btnContact        = "💬 تماس با ما"
	btnBackToMenu     = "🔙 بازگشت به منو"
	btnAlmas          = "💎 خرید قسطی اشتراک الماس 💎"
	btnMyInstallments = "💳 اقساط من"
	btnConsultation   = "💬 مشاوره تلفنی رایگان"
	btnSupport        = "👩‍💻 پشتیبانی"
	btnCooperation    = "🤝 همکاری با نمایندگی"
	btnIncome         = "💰 درآمد زایی و معرفی دوستان"

	btnHaveReferral = "کد معرف دارم"
	btnNoReferral   = "کد معرف ندارم"
	btnInstallment  = "پرداخت قسطی"
	btnCash         = "پرداخت نقدی"

	btnBuy     = "🛒 خرید"
	btnNotSure = "هنوز مطمعن نیستم"
)

// Callback data of inline buttons.
const (
	cbBuy        = "buy_"
	cbAuthorize  = "authorize"
	cbNotSure    = "not_sure"
	cbBackToMenu = "back_to_menu"
	cbOrder      = "inst_"
	cbUpload     = "upl_"
	cbIgnore     = "ignore"
)
