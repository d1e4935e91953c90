package response

// Messages returned by the API. Local texts are Burmese.
var (
	MsgLoginSucceeded = Message{
		EN:    "Successfully Generate Access Token.",
		Local: "Access Token ကို အောင်မြင်စွာ ထုတ်ပေးပြီးပါပြီ။",
	}
	MsgUserNotFoundByLogin = Message{
		EN:    "Invalid username or invalid email. User not found.",
		Local: "အသုံးပြုသူအမည် (သို့) Email မှားနေပါသည်။ အသုံးပြုသူ အချက်အလက် ရှာမတွေ့ပါ။",
	}
	MsgInvalidCredentials = Message{
		EN:    "The username or password is invalid. Please try again.",
		Local: "အသုံးပြုသူအမည် သို့မဟုတ် စကားဝှက်သည် မမှန်ကန်ပါ။ ထပ်စမ်းကြည့်ပါ။",
	}
	MsgInvalidAccessToken = Message{
		EN:    "Invalid access token.",
		Local: "Access token မှားနေပါသည်။",
	}
	MsgUserNotFound = Message{
		EN:    "User not found.",
		Local: "အသုံးပြုသူ ရှာမတွေ့ပါ။",
	}
	MsgInvalidRefreshToken = Message{
		EN:    "Invalid or expired refresh token.",
		Local: "Refresh token မမှန်ပါ သို့မဟုတ် သက်တမ်းကုန်သွားပါပြီ။",
	}
	MsgRefreshSucceeded = Message{
		EN:    "Successfully refreshed token.",
		Local: "Token ကို အောင်မြင်စွာ refresh လုပ်ပြီးပါပြီ။",
	}
	MsgRevokeSucceeded = Message{
		EN:    "Token Revoke Successfully",
		Local: "Token ကို အောင်မြင်စွာ ပယ်ဖျက်ပြီးပါပြီ။",
	}
	MsgPasswordMismatch = Message{
		EN:    "Password and ConfirmPassword do not match.",
		Local: "Password နှင့် ConfirmPassword မကိုက်ညီပါ။",
	}
	MsgPrincipalExists = Message{
		EN:    "Username or Email already exists.",
		Local: "အသုံးပြုသူအမည် သို့မဟုတ် Email သည် ရှိပြီးသား ဖြစ်သည်။",
	}
	MsgInvalidRegistration = Message{
		EN:    "Unable to create user.",
		Local: "အသုံးပြုသူ ဖန်တီး၍ မရပါ။",
	}
	MsgRegisterSucceeded = Message{
		EN:    "User registered successfully.",
		Local: "အသုံးပြုသူအား အောင်မြင်စွာ မှတ်ပုံတင်ပြီးပါပြီ။",
	}
	MsgUnauthorized = Message{
		EN:    "Unauthorized: Invalid or expired token.",
		Local: "ခွင့်ပြုချက် မရှိပါ။ Token သက်တမ်းကုန်သွားပြီး ဖြစ်နိုင်သည်။",
	}
	MsgTokenValid = Message{
		EN:    "Token is valid and authorized.",
		Local: "Token သက်တမ်း မကုန်သေးပါ။ အသုံးပြုခွင့် ရှိသည်။",
	}
	MsgStatusAuthorized = Message{
		EN:    "authorized",
		Local: "ခွင့်ပြုထားသည်။",
	}
	MsgStatusUnauthorized = Message{
		EN:    "Unauthorized",
		Local: "ခွင့်ပြုချက် မရှိပါ။",
	}
	MsgPhotosListed = Message{
		EN:    "Successfully retrieved photos.",
		Local: "အောင်မြင်ပါသည်။",
	}
	MsgPhotoFound = Message{
		EN:    "Successfully Get Data.",
		Local: "အောင်မြင်ပါသည်။",
	}
	MsgTagsListed = Message{
		EN:    "Successfully retrieved tags.",
		Local: "အောင်မြင်ပါသည်။",
	}
	MsgPhotoNotFound = Message{
		EN:    "Photo not found.",
		Local: "ဓာတ်ပုံ ရှာမတွေ့ပါ။",
	}
	MsgPhotoUploaded = Message{
		EN:    "Successfully uploaded.",
		Local: "ဓာတ်ပုံကို အောင်မြင်စွာ တင်ပြီးပါပြီ။",
	}
	MsgInvalidPhoto = Message{
		EN:    "Only JPEG or PNG images with a title can be uploaded.",
		Local: "ခေါင်းစဉ်ပါသော JPEG သို့မဟုတ် PNG ဓာတ်ပုံများကိုသာ တင်နိုင်ပါသည်။",
	}
	MsgPhotoDeleted = Message{
		EN:    "Photo deleted successfully",
		Local: "ဓာတ်ပုံကို အောင်မြင်စွာ ဖျက်ပြီးပါပြီ။",
	}
	MsgForbidden = Message{
		EN:    "You are not authorized to delete this photo.",
		Local: "ဤဓာတ်ပုံကို ဖျက်ရန် ခွင့်ပြုချက် မရှိပါ။",
	}
	MsgBadRequest = Message{
		EN:    "Invalid request.",
		Local: "တောင်းဆိုချက် မမှန်ကန်ပါ။",
	}
	MsgNotFound = Message{
		EN:    "Resource not found.",
		Local: "ရှာမတွေ့ပါ။",
	}
	MsgServiceUnavailable = Message{
		EN:    "Service is temporarily unavailable. Please try again.",
		Local: "ဝန်ဆောင်မှု ယာယီ မရရှိနိုင်ပါ။ ထပ်စမ်းကြည့်ပါ။",
	}
	MsgInternalError = Message{
		EN:    "An internal error occurred.",
		Local: "အမှားတစ်ခု ဖြစ်ပွားခဲ့သည်။",
	}
)
