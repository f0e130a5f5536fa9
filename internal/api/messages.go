package api

import "github.com/intlakaa/internal/middleware"

// User-facing messages. Auth failures share one message so responses never
// reveal whether an e-mail is registered.
const (
	msgInvalidBody      = "البيانات المرسلة غير صالحة"
	msgInvalidEmail     = "البريد الإلكتروني غير صالح"
	msgPasswordTooShort = "كلمة المرور يجب أن تكون 6 أحرف على الأقل"
	msgPasswordTooLong  = "كلمة المرور طويلة جداً"
	msgPasswordSame     = "كلمة المرور الجديدة يجب أن تختلف عن الحالية"
	msgRequiredFields   = "يرجى تعبئة جميع الحقول المطلوبة"
	msgInvalidRole      = "الدور المحدد غير صالح"
	msgInvalidTracking  = "معرف التتبع غير صالح"
	msgInvalidRobots    = "محتوى robots.txt غير صالح"
	msgInvalidField     = "قيمة أحد الحقول غير صالحة"
	msgLoginFailed      = "البريد الإلكتروني أو كلمة المرور غير صحيحة"
	msgLoginSuccess     = "تم تسجيل الدخول بنجاح"
	msgLogoutSuccess    = "تم تسجيل الخروج"
	msgWrongPassword    = "كلمة المرور الحالية غير صحيحة"
	msgPasswordChanged  = "تم تغيير كلمة المرور بنجاح، يرجى تسجيل الدخول مجدداً"
	msgInviteInvalid    = "رابط الدعوة غير صالح أو منتهي الصلاحية"
	msgInviteSent       = "تم إرسال الدعوة بنجاح"
	msgEmailTaken       = "البريد الإلكتروني مستخدم بالفعل"
	msgRoleUpdated      = "تم تحديث الدور بنجاح"
	msgUserDeleted      = "تم حذف المستخدم بنجاح"
	msgUserNotFound     = "المستخدم غير موجود"
	msgLastOwner        = "لا يمكن إزالة آخر مالك للنظام"
	msgSelfModify       = "لا يمكنك تعديل أو حذف حسابك الخاص"
	msgRequestCreated   = "تم إرسال طلبك بنجاح"
	msgRequestDeleted   = "تم حذف الطلب بنجاح"
	msgRequestNotFound  = "الطلب غير موجود"
	msgSiteUnavailable  = "ملف الموقع غير متوفر للمزامنة"
	msgNotFound         = "المسار المطلوب غير موجود"
	msgMethodNotAllowed = "الطريقة غير مسموح بها"
	msgServerError      = "حدث خطأ في الخادم، يرجى المحاولة لاحقاً"
	msgUnauthorized     = middleware.MsgUnauthorized
)
